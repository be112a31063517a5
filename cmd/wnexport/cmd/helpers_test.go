package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const dataHeader = "  1 This software and database is being provided to you, the LICENSEE\n"

// dataFile builds a data.* body whose synset lines start at the offsets
// they declare. It returns the body and each gloss line's offset.
func dataFile(lexName string, glosses ...string) (string, []int) {
	var sb strings.Builder
	sb.WriteString(dataHeader)
	offsets := make([]int, len(glosses))
	for i, g := range glosses {
		offsets[i] = sb.Len()
		fmt.Fprintf(&sb, "%08d %s 01 w 0 000 | %s  \n", offsets[i], lexName, g)
	}
	return sb.String(), offsets
}

// writeWordNet writes a small dict directory with noun and verb pairs, an
// unpaired index.adj and an ignored index.sense.
//
// Kept with default filters: cat, dog (noun + verb), o'clock.
// Rejected: 3d (digits).
func writeWordNet(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	nounData, n := dataFile("05 n",
		`a domesticated canid; "the dog barked"`,
		"according to the clock",
		"feline mammal",
	)
	nounIndex := dataHeader +
		fmt.Sprintf("3d n 1 0 1 0 %08d  \n", n[0]) +
		fmt.Sprintf("cat n 1 0 1 0 %08d  \n", n[2]) +
		fmt.Sprintf("dog n 1 0 1 0 %08d  \n", n[0]) +
		fmt.Sprintf("o'clock n 1 0 1 0 %08d  \n", n[1])

	verbData, v := dataFile("29 v", "go after with the intent to catch")
	verbIndex := dataHeader + fmt.Sprintf("dog v 1 0 1 0 %08d  \n", v[0])

	files := map[string]string{
		"index.noun":  nounIndex,
		"data.noun":   nounData,
		"index.verb":  verbIndex,
		"data.verb":   verbData,
		"index.adj":   dataHeader,
		"index.sense": "dog%1:05:00:: 02084071 1 42\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

// isolate gives the test private HOME, config and working directories and
// returns the working directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "WNEXPORT_") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
	wd := t.TempDir()
	t.Chdir(wd)
	return wd
}

// runCLI executes the root command with args and returns combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}
