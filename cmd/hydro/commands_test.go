package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const project = "../../load/testdata/river.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestModels(t *testing.T) {
	out, err := execute(t, "models")
	require.NoError(t, err)
	for _, name := range []string{"branch", "interp", "waterlevel", "weir"} {
		require.Contains(t, out, name+"\n")
	}
	require.Contains(t, out, "parameters.crestwidth [0, +Inf]")
	require.Contains(t, out, "outlets.branched count=* by=name")
	require.Contains(t, out, "get_waterlevel determine_waterlevel")
}

func TestRun(t *testing.T) {
	out, err := execute(t, "run", project, "--set", "weir.crestheight=3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	require.True(t, strings.HasPrefix(lines[0], "step\ttime\tinflow"))
	require.True(t, strings.HasPrefix(lines[1], "0\t2000-01-30T00:00\t8\t4"))

	_, err = execute(t, "run", project, "--set", "weir.crestwidth=-1")
	require.Error(t, err)
	_, err = execute(t, "run")
	require.Error(t, err)
}

func TestRunOutput(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.json", "out.html", "out.png"} {
		path := filepath.Join(dir, name)
		_, err := execute(t, "run", project, "-q", "-o", path, "--nodes", "north,south")
		require.NoError(t, err, name)
		info, err := os.Stat(path)
		require.NoError(t, err, name)
		require.Positive(t, info.Size(), name)
	}
	_, err := execute(t, "run", project, "-q", "-o", filepath.Join(dir, "out.csv"))
	require.Error(t, err)
	// 目录不存在时保存失败
	_, err = execute(t, "run", project, "-q", "-o", filepath.Join(dir, "missing", "out.db"))
	require.Error(t, err)
}
