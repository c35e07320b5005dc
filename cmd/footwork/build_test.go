package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/footwork/pkg/kicad"
)

// copyExample copies an example script into dir.
func copyExample(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(examplePath(name))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunBuildWritesOutputs(t *testing.T) {
	src := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	scripts := []string{
		copyExample(t, src, "two_pad.fw"),
		copyExample(t, src, "r0805.fw"),
	}

	var out bytes.Buffer
	opts := buildOptions{Write: true, OutDir: outDir, Preview: "svg", Report: true, Jobs: 1}
	err := runBuild(context.Background(), NewApp(testSettings()), scripts, opts, &out)
	require.NoError(t, err)

	for _, name := range []string{"two_pad", "r0805"} {
		mod, err := os.ReadFile(filepath.Join(outDir, name+".kicad_mod"))
		require.NoError(t, err, name)
		m, err := kicad.ParseString(string(mod))
		require.NoError(t, err, name)
		assert.Len(t, m.Pads, 2, name)

		svg, err := os.ReadFile(filepath.Join(outDir, name+".svg"))
		require.NoError(t, err, name)
		assert.Contains(t, string(svg), "<svg")

		rep, err := os.ReadFile(filepath.Join(outDir, name+".yaml"))
		require.NoError(t, err, name)
		assert.Contains(t, string(rep), "status: solved")
	}

	// Results are reported in argument order.
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "two-pad solved (dof 0)")
	assert.Contains(t, lines[1], "R_0805 solved (dof 0)")
}

func TestRunBuildNextToScript(t *testing.T) {
	dir := t.TempDir()
	script := copyExample(t, dir, "square.fw")

	var out bytes.Buffer
	err := runBuild(context.Background(), NewApp(testSettings()), []string{script}, buildOptions{Write: true}, &out)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "square.kicad_mod"))
	assert.NoFileExists(t, filepath.Join(dir, "square.yaml"))
	assert.NoFileExists(t, filepath.Join(dir, "square.svg"))
}

func TestRunBuildFailure(t *testing.T) {
	dir := t.TempDir()
	good := copyExample(t, dir, "two_pad.fw")
	bad := filepath.Join(dir, "bad.fw")
	require.NoError(t, os.WriteFile(bad, []byte(`(pad "1") (line "1" :middle)`), 0o644))

	var out bytes.Buffer
	opts := buildOptions{Write: true, Report: true}
	err := runBuild(context.Background(), NewApp(testSettings()), []string{good, bad}, opts, &out)
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
	assert.Contains(t, err.Error(), "1 of 2 footprints failed")

	// The good script is still written; the bad one only gets a report.
	assert.FileExists(t, filepath.Join(dir, "two_pad.kicad_mod"))
	assert.NoFileExists(t, filepath.Join(dir, "bad.kicad_mod"))
	rep, err := os.ReadFile(filepath.Join(dir, "bad.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(rep), "status: error")
	assert.Contains(t, string(rep), `invalid side`)

	assert.Contains(t, out.String(), "bad.fw: bad error")
	assert.Contains(t, out.String(), "error:")
}

func TestRunBuildMissingScript(t *testing.T) {
	var out bytes.Buffer
	err := runBuild(context.Background(), NewApp(testSettings()),
		[]string{filepath.Join(t.TempDir(), "nope.fw")}, buildOptions{}, &out)
	require.Error(t, err)
	assert.Equal(t, exitSysError, exitCode(err))
}

func TestRunBuildBadPreview(t *testing.T) {
	var out bytes.Buffer
	err := runBuild(context.Background(), NewApp(testSettings()),
		[]string{examplePath("two_pad.fw")}, buildOptions{Write: true, Preview: "png"}, &out)
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestRunBuildJSON(t *testing.T) {
	dir := t.TempDir()
	script := copyExample(t, dir, "two_pad.fw")

	var out bytes.Buffer
	err := runBuild(context.Background(), NewApp(testSettings()), []string{script}, buildOptions{JSON: true}, &out)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "two-pad", got[0]["name"])
	assert.Equal(t, "solved", got[0]["status"])
	assert.EqualValues(t, 0, got[0]["dof"])
	assert.NotContains(t, got[0], "Output")

	// Check mode writes nothing.
	assert.NoFileExists(t, filepath.Join(dir, "two_pad.kicad_mod"))
}

func TestRunBuildPDFPreview(t *testing.T) {
	dir := t.TempDir()
	script := copyExample(t, dir, "square.fw")

	var out bytes.Buffer
	err := runBuild(context.Background(), NewApp(testSettings()), []string{script},
		buildOptions{Write: true, Preview: "PDF"}, &out)
	require.NoError(t, err)
	pdf, err := os.ReadFile(filepath.Join(dir, "square.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestSummarize(t *testing.T) {
	res := BuildResult{
		Script: "x.fw",
		Name:   "x",
		Status: "inconsistent",
		DOF:    1,
		Failed: []string{"distance 10"},
		Errors: []EvalErrorData{{Line: 3, Message: "boom"}, {Message: "plain"}},
	}
	var b bytes.Buffer
	require.NoError(t, summarize(&b, res))
	want := "x.fw: x inconsistent (dof 1)\n" +
		"  error: line 3: boom\n" +
		"  error: plain\n" +
		"  failed: distance 10\n"
	assert.Equal(t, want, b.String())
}
