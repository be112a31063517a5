// Package version reports the wnexport build and the storage drivers linked
// into it.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
)

// Version is the release version, injected at build time:
//
//	-X github.com/Aman-CERP/wnexport/pkg/version.Version=$(VERSION)
var Version = "dev"

// Commit and Date are injected via ldflags alongside Version.
var (
	Commit = "unknown"
	Date   = "unknown"
)

// DriverModules are the modules that write the database outputs.
var DriverModules = []string{
	"modernc.org/sqlite",
	"github.com/jackc/pgx/v5",
}

// Driver is one linked storage driver.
type Driver struct {
	Module  string `json:"module"`
	Version string `json:"version"`
}

// BuildInfo is the `wnexport version --json` document.
type BuildInfo struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	Date      string   `json:"date"`
	GoVersion string   `json:"go_version"`
	Platform  string   `json:"platform"`
	Drivers   []Driver `json:"drivers"`
}

// String returns the one-line version banner.
func String() string {
	return fmt.Sprintf("wnexport %s (commit: %s, built: %s, go: %s)",
		Version, Commit, Date, runtime.Version())
}

// Short returns just the version string.
func Short() string {
	return Version
}

// Drivers returns the linked DriverModules sorted by module path. Modules
// missing from the build info, as in some test binaries, are left out.
func Drivers() []Driver {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return []Driver{}
	}
	return driversFrom(info.Deps)
}

func driversFrom(deps []*debug.Module) []Driver {
	wanted := make(map[string]bool, len(DriverModules))
	for _, m := range DriverModules {
		wanted[m] = true
	}

	out := []Driver{}
	for _, dep := range deps {
		if !wanted[dep.Path] {
			continue
		}
		v := dep.Version
		if dep.Replace != nil && dep.Replace.Version != "" {
			v = dep.Replace.Version
		}
		out = append(out, Driver{Module: dep.Path, Version: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Module < out[j].Module })
	return out
}

// GetInfo returns the build information with linked drivers.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Drivers:   Drivers(),
	}
}
