package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chazu/footwork/pkg/kicad"
)

// builtModule builds an example and writes its module to a temp dir.
func builtModule(t *testing.T, example string) string {
	t.Helper()
	res, err := NewApp(testSettings()).BuildFile(context.Background(), examplePath(example))
	require.NoError(t, err)
	require.True(t, res.OK())
	path := filepath.Join(t.TempDir(), scriptName(example)+".kicad_mod")
	require.NoError(t, os.WriteFile(path, []byte(res.Output), 0o644))
	return path
}

func TestRunInspectYAML(t *testing.T) {
	path := builtModule(t, "two_pad.fw")

	var out bytes.Buffer
	require.NoError(t, runInspect(path, false, &out))

	var m kicad.Module
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &m))
	assert.Equal(t, "two-pad", m.Name)
	require.Len(t, m.Pads, 2)
	assert.Equal(t, "1", m.Pads[0].Pin)
	assert.InDelta(t, -43.5, m.Pads[0].X, delta)
	assert.InDelta(t, 50, m.Pads[1].Width, delta)
}

func TestRunInspectJSON(t *testing.T) {
	path := builtModule(t, "r0805.fw")

	var out bytes.Buffer
	require.NoError(t, runInspect(path, true, &out))

	var m kicad.Module
	require.NoError(t, json.Unmarshal(out.Bytes(), &m))
	assert.Equal(t, "R_0805", m.Name)
	assert.Equal(t, kicad.Layer, m.Layer)
	require.Len(t, m.Pads, 2)
	assert.InDelta(t, 1.3, m.Pads[1].Height, delta)
}

func TestRunInspectErrors(t *testing.T) {
	var out bytes.Buffer
	err := runInspect(filepath.Join(t.TempDir(), "missing.kicad_mod"), false, &out)
	require.Error(t, err)
	assert.Equal(t, exitSysError, exitCode(err))

	bad := writeScript(t, "bad.kicad_mod", "(module x (layer F.Cu)")
	err = runInspect(bad, false, &out)
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}
