package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--log-level", "disabled", "--pretty=false"}, args...))
	cmd.SetContext(testContext(t))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommand(t *testing.T) {
	t.Run("Should pass a valid request", func(t *testing.T) {
		path := writeFile(t, "req.json", `{"scenes":[{"elements":[{"type":"text","text":"Hi"}]}]}`)

		out, err := run(t, "validate", path)
		require.NoError(t, err)

		var r report
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		assert.Equal(t, "PASS - COMPLETE validation - Errors: 0, Warnings: 0", r.Summary)
		assert.True(t, r.CanProceed)
		assert.True(t, r.Recoverable)
	})

	t.Run("Should fail strict validation and triage errors", func(t *testing.T) {
		path := writeFile(t, "req.yaml", "scenes:\n  - elements:\n      - type: video\n")

		out, err := run(t, "validate", path)
		assert.ErrorIs(t, err, errCannotProceed)

		var r report
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		assert.False(t, r.CanProceed)
		require.Len(t, r.Triage.Fixable, 1)
		assert.Equal(t, "Scene 1, element 1: Video element requires src", r.Triage.Fixable[0].Message)
	})

	t.Run("Should proceed without strict mode", func(t *testing.T) {
		path := writeFile(t, "req.json", `{"scenes":[]}`)

		_, err := run(t, "--strict=false", "validate", path)
		assert.NoError(t, err)
	})
}

func TestBuildCommand(t *testing.T) {
	params := writeFile(t, "params.yaml", `
items:
  - recordId: rec-1
    elements:
      - type: video
        src: https://cdn.example.com/v.mp4
        zIndex: 0
  - advancedMode: true
    jsonTemplate: "{incomplete"
`)

	t.Run("Should build every item and write requests", func(t *testing.T) {
		outDir := t.TempDir()
		out, err := run(t, "build", "--params", params, "--out", outDir)
		assert.ErrorIs(t, err, errCannotProceed)

		var reports []report
		require.NoError(t, json.Unmarshal([]byte(out), &reports))
		require.Len(t, reports, 2)
		assert.True(t, reports[0].CanProceed)
		assert.Equal(t, "rec-1", reports[0].Request["id"])
		assert.False(t, reports[1].CanProceed)
		assert.Equal(t, "Invalid JSON template: Parse error", reports[1].Errors[0].Message)

		_, err = os.Stat(filepath.Join(outDir, "request_001.json"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(outDir, "request_002.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Should build a single item", func(t *testing.T) {
		out, err := run(t, "build", "--params", params, "--item", "1")
		require.NoError(t, err)

		var reports []report
		require.NoError(t, json.Unmarshal([]byte(out), &reports))
		require.Len(t, reports, 1)
		assert.Equal(t, 1, reports[0].Item)
	})

	t.Run("Should reject items out of range", func(t *testing.T) {
		_, err := run(t, "build", "--params", params, "--item", "5")
		assert.ErrorContains(t, err, "out of range")
	})
}

func TestProbeCommand(t *testing.T) {
	t.Run("Should probe the newest image of a directory", func(t *testing.T) {
		dir := t.TempDir()
		f, err := os.Create(filepath.Join(dir, "frame.png"))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 32, 18))))
		require.NoError(t, f.Close())
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

		out, err := run(t, "probe", dir)
		require.NoError(t, err)
		assert.Contains(t, out, filepath.Join(dir, "frame.png")+"\t32x18\tpng")
	})

	t.Run("Should report sources that cannot be probed", func(t *testing.T) {
		out, err := run(t, "probe", filepath.Join(t.TempDir(), "missing.png"))
		assert.ErrorIs(t, err, errCannotProceed)
		assert.Contains(t, out, "error:")
	})
}

// testContext mirrors testing.T.Context (Go 1.24+): the context is canceled
// when the test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
