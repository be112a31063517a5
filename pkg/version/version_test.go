package version

import (
	"encoding/json"
	"regexp"
	"runtime"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_FollowsSemverOrDev(t *testing.T) {
	if Version == "dev" {
		return
	}
	semver := regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	require.True(t, semver.MatchString(Version), "Version should follow semver format, got: %s", Version)
}

func TestString_ContainsBuildInfo(t *testing.T) {
	// Given: injected build values
	oldCommit, oldDate := Commit, Date
	Commit, Date = "abc1234", "2026-01-02T03:04:05Z"
	t.Cleanup(func() { Commit, Date = oldCommit, oldDate })

	// When: formatting the version
	s := String()

	// Then: every value is present
	assert.True(t, strings.HasPrefix(s, "wnexport "+Version))
	assert.Contains(t, s, "commit: abc1234")
	assert.Contains(t, s, "built: 2026-01-02T03:04:05Z")
	assert.Contains(t, s, "go: "+runtime.Version())
}

func TestDriversFrom_PicksStorageModules(t *testing.T) {
	// Given: build deps with the drivers, a replaced driver and an unrelated module
	deps := []*debug.Module{
		{Path: "github.com/spf13/cobra", Version: "v1.10.2"},
		{Path: "modernc.org/sqlite", Version: "v1.44.0"},
		{Path: "github.com/jackc/pgx/v5", Version: "v5.8.0", Replace: &debug.Module{Path: "../pgx", Version: "v5.8.1"}},
	}

	// When: selecting drivers
	got := driversFrom(deps)

	// Then: only drivers remain, sorted, with the replacement version
	assert.Equal(t, []Driver{
		{Module: "github.com/jackc/pgx/v5", Version: "v5.8.1"},
		{Module: "modernc.org/sqlite", Version: "v1.44.0"},
	}, got)
}

func TestDriversFrom_NoneLinked(t *testing.T) {
	got := driversFrom(nil)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetInfo_MarshalsToJSON(t *testing.T) {
	// Given: the build info
	info := GetInfo()

	// When: marshaling to JSON
	data, err := json.Marshal(info)
	require.NoError(t, err)

	// Then: keys are snake_case, the platform is filled in and drivers is a list
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Version, decoded["version"])
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, decoded["platform"])
	assert.Contains(t, decoded, "go_version")
	assert.IsType(t, []any{}, decoded["drivers"])
}
