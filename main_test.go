package main

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avollmer/sceneslice/internal/config"
	"github.com/avollmer/sceneslice/internal/errors"
)

const sampleScene = `{
	"objects": [
		{"objectId": "floor_1", "objectType": "Floor",
		 "position": {"x": 0, "y": -0.1, "z": 0},
		 "dimensions": {"x": 10, "y": 0.2, "z": 8}},
		{"objectId": "table_1", "objectType": "Table",
		 "position": {"x": 2, "y": 0.4, "z": 1},
		 "dimensions": {"x": 1.6, "y": 0.8, "z": 0.9}},
		{"objectId": "lamp_1", "objectType": "Lamp",
		 "position": {"x": -3, "y": 2.5, "z": 2},
		 "dimensions": {"x": 0.3, "y": 0.5, "z": 0.3}}
	]
}`

// resetCLI snapshots the CLI globals and restores them after the test.
func resetCLI(t *testing.T) {
	t.Helper()
	saved := CLI
	t.Cleanup(func() { CLI = saved })

	CLI.Input = ""
	CLI.Output = ""
	CLI.Stdout = false
	CLI.Suffix = config.SuffixDot
	CLI.Preview = false
	CLI.Width = 260
	CLI.Height = 260
	CLI.RoomPlan = ""
	CLI.Agents = ""
	CLI.Config = ""
	CLI.Debug = false
	CLI.Version = false
}

func writeScene(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_WritesDerivedSliceFile(t *testing.T) {
	resetCLI(t)
	dir := t.TempDir()
	CLI.Input = writeScene(t, dir, "room.json", sampleScene)

	require.NoError(t, run(zap.NewNop()))

	data, err := os.ReadFile(filepath.Join(dir, "room.slice.json"))
	require.NoError(t, err)

	var doc struct {
		SliceHeight float64 `json:"slice_height"`
		Objects     []struct {
			ObjectID   string `json:"objectId"`
			ObjectType string `json:"objectType"`
		} `json:"objects"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	// Floor bottom is -0.1 - 0.2/2 = -0.2, so the slice sits at -0.15.
	assert.InDelta(t, -0.15, doc.SliceHeight, 1e-9)
	require.Len(t, doc.Objects, 1)
	assert.Equal(t, "floor_1", doc.Objects[0].ObjectID)
	assert.Equal(t, "Floor", doc.Objects[0].ObjectType)
}

func TestRun_UnderscoreSuffix(t *testing.T) {
	resetCLI(t)
	dir := t.TempDir()
	CLI.Input = writeScene(t, dir, "room.json", sampleScene)
	CLI.Suffix = config.SuffixUnderscore

	require.NoError(t, run(zap.NewNop()))

	_, err := os.Stat(filepath.Join(dir, "room_slice.json"))
	assert.NoError(t, err)
}

func TestRun_ExplicitOutputPath(t *testing.T) {
	resetCLI(t)
	dir := t.TempDir()
	CLI.Input = writeScene(t, dir, "room.json", sampleScene)
	CLI.Output = filepath.Join(dir, "custom.json")

	require.NoError(t, run(zap.NewNop()))

	_, err := os.Stat(CLI.Output)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "room.slice.json"))
	assert.True(t, os.IsNotExist(err), "derived path should not be written when -o is given")
}

func TestRun_InvalidJSON(t *testing.T) {
	resetCLI(t)
	dir := t.TempDir()
	CLI.Input = writeScene(t, dir, "bad.json", `{"objects": [`)

	err := run(zap.NewNop())
	require.Error(t, err)
	assert.True(t, hasErrorType(err, errors.ErrorTypeParsing), "expected a parsing error, got %v", err)
}

func TestRun_NoObjects(t *testing.T) {
	resetCLI(t)
	dir := t.TempDir()
	CLI.Input = writeScene(t, dir, "empty.json", `{"objects": []}`)

	err := run(zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoObjects)
}

func TestRun_MissingFile(t *testing.T) {
	resetCLI(t)
	CLI.Input = filepath.Join(t.TempDir(), "missing.json")

	err := run(zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
}

func TestRun_BadConfigFile(t *testing.T) {
	resetCLI(t)
	dir := t.TempDir()
	CLI.Input = writeScene(t, dir, "room.json", sampleScene)
	CLI.Config = writeScene(t, dir, "cfg.yml", "output:\n  suffix: hyphen\n")

	err := run(zap.NewNop())
	require.Error(t, err)
	assert.True(t, hasErrorType(err, errors.ErrorTypeInput), "expected an input error, got %v", err)
}

func TestRun_ConfigFileSuffixApplies(t *testing.T) {
	resetCLI(t)
	dir := t.TempDir()
	CLI.Input = writeScene(t, dir, "room.json", sampleScene)
	CLI.Config = writeScene(t, dir, "cfg.yml", "output:\n  suffix: underscore\n")

	require.NoError(t, run(zap.NewNop()))

	_, err := os.Stat(filepath.Join(dir, "room_slice.json"))
	assert.NoError(t, err, "suffix from the config file should drive the derived name")
}

// hasErrorType reports whether err carries an AppError of the given type.
func hasErrorType(err error, errType errors.ErrorType) bool {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Type == errType
}
