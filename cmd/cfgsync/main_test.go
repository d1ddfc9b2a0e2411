package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"config-reconciler/callable"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func runCLI(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)

	return code, out.String(), errOut.String()
}

func TestShow(t *testing.T) {
	path := writeFile(t, "cam.yaml", "a:\n  b: 1\n  c: 2\n")

	code, out, _ := runCLI("show", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "a:\n    b: 1\n    c: 2\n", out)
}

func TestMerge(t *testing.T) {
	base := writeFile(t, "base.yaml", "a:\n  x: 1\n  y: 2\nb: 1\n")
	overlay := writeFile(t, "overlay.json", `{"a": {"y": 3}, "c": true}`)

	code, out, stderr := runCLI("merge", base, overlay)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "a:\n    x: 1\n    y: 3\nb: 1\nc: true\n", out)

	code, out, _ = runCLI("-format", "json", "merge", base, overlay)
	require.Equal(t, 0, code)
	assert.JSONEq(t, `{"a": {"x": 1, "y": 3}, "b": 1, "c": true}`, out)
}

func TestDump(t *testing.T) {
	code, out, _ := runCLI("dump", "se3_keyboard")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "pos_sensitivity: 0.4\n")
	assert.Contains(t, out, "callbacks:\n")
	assert.Contains(t, out, "profiles:ToggleGripper")

	code, _, stderr := runCLI("dump", "lidar")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown profile")
}

func TestApply(t *testing.T) {
	path := writeFile(t, "overlay.yaml", "height: 240\nusd_params:\n  clipping_range: [0.5, 50.0]\n")

	code, out, stderr := runCLI("apply", "pinhole_camera", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "height: 240\n")
	assert.Contains(t, out, "width: 640\n")
	assert.Contains(t, out, "- 50\n")
	assert.Contains(t, stderr, "configuration applied")

	bad := writeFile(t, "bad.yaml", "data_types: [rgb]\n")
	code, _, stderr = runCLI("apply", "pinhole_camera", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "incorrect length under namespace /data_types")
}

func TestCheck(t *testing.T) {
	bad := writeFile(t, "bad.yaml", "heigth: 240\nwidth: wide\nspawn_func: nowhere\n")
	good := writeFile(t, "good.json", `{"height": 240}`)

	code, out, stderr := runCLI("check", "pinhole_camera", good, bad)
	assert.Equal(t, 1, code)
	assert.Equal(t, good+": ok\n", out)
	assert.Contains(t, stderr, "3 problem(s) found")
	assert.Contains(t, stderr, "["+bad+"] /heigth: [unknown_key]")
	assert.Contains(t, stderr, "did you mean height?")
	assert.Contains(t, stderr, "["+bad+"] /width: [type_mismatch]")
	assert.Contains(t, stderr, "["+bad+"] /spawn_func: [callable]")

	code, out, _ = runCLI("check", "pinhole_camera", good)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "good.json: ok")
}

func TestCheck_WarnsAboutDroppedBindings(t *testing.T) {
	path := writeFile(t, "keys.yaml", "callbacks:\n  K: config-reconciler/internal/profiles:ResetCommand\n")

	code, out, stderr := runCLI("check", "se3_keyboard", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "warning: ["+path+"] /callbacks: [dropped_keys]")
	assert.Contains(t, out, "keys not carried over: L\n")
	assert.Contains(t, out, path+": ok\n")
}

func TestConfigFile(t *testing.T) {
	settings := writeFile(t, "cfgsync.yaml", "output:\n  format: json\nlogging:\n  level: debug\n")
	path := writeFile(t, "overlay.yaml", "pos_sensitivity: 0.1\n")

	code, out, stderr := runCLI("-config", settings, "apply", "se3_keyboard", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, `"pos_sensitivity": 0.1`)
	assert.Contains(t, stderr, "config field updated")

	toStdout := writeFile(t, "stdout.yaml", "logging:\n  level: debug\n  output: stdout\n")
	code, out, stderr = runCLI("-config", toStdout, "apply", "se3_keyboard", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "config field updated")
	assert.Contains(t, out, "pos_sensitivity: 0.1\n")
	assert.NotContains(t, stderr, "config field updated")

	broken := writeFile(t, "broken.yaml", "outptu:\n  format: json\n")
	code, _, stderr = runCLI("-config", broken, "profiles")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `did you mean "output"`)
}

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"unknown"},
		{"show"},
		{"merge", "only-base.yaml"},
		{"apply", "pinhole_camera"},
		{"check", "pinhole_camera"},
		{"-format", "toml", "profiles"},
	} {
		code, _, _ := runCLI(args...)
		assert.Equal(t, 2, code, "%v", args)
	}

	code, out, _ := runCLI("profiles")
	assert.Equal(t, 0, code)
	assert.Equal(t, "pinhole_camera\nse3_keyboard\n", out)

	code, out, _ = runCLI("version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "cfgsync "+version+"\n", out)
}

func TestRun_SealsDefaultRegistry(t *testing.T) {
	code, _, _ := runCLI("profiles")
	require.Equal(t, 0, code)

	assert.True(t, callable.Default.Sealed())
	assert.ErrorIs(t, callable.Register(writeFile), callable.ErrSealed)
}
