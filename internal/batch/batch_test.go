package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-constant-renderer/internal/config"
	"pixel-constant-renderer/internal/texture"
)

const cubeOBJ = `v -1 -1 -1
v 1 -1 -1
v 1 1 -1
v -1 1 -1
v -1 -1 1
v 1 -1 1
v 1 1 1
v -1 1 1
f 1 2 3 4
f 5 8 7 6
f 1 5 6 2
f 2 6 7 3
f 3 7 8 4
f 5 1 4 8
`

const goodScene = `active_object: Crate
camera: Camera
settings:
  pixels_per_unit: 100
  camera_angle: 60
  camera_distance: 15
objects:
  - name: Crate
    type: MESH
    mesh: cube.obj
    location: [0, 0, 1.5]
    scale: [1, 2, 1.5]
  - name: Camera
    type: CAMERA
`

const bareScene = `active_object: Crate
camera: Camera
objects:
  - name: Crate
    type: MESH
    mesh: cube.obj
    location: [0, 0, 1.5]
    scale: [1, 2, 1.5]
  - name: Camera
    type: CAMERA
`

const noCameraScene = `active_object: Crate
objects:
  - name: Crate
    type: MESH
    mesh: cube.obj
`

func setup(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
		return p
	}
	write("cube.obj", cubeOBJ)
	return dir, []string{write("good.yaml", goodScene), write("nocam.yaml", noCameraScene)}
}

func TestRun(t *testing.T) {
	dir, scenes := setup(t)
	out := filepath.Join(dir, "out")

	angle := 90.0
	cfg := Config{
		Settings:    config.Config{PixelsPerUnit: 10, CameraAngle: &angle},
		OutputDir:   out,
		TexResolver: texture.NewCache(),
		Preview:     true,
		WriteScenes: true,
		Supersample: 2,
		Workers:     2,
	}
	results := Run(cfg, scenes)
	require.Len(t, results, 2)

	good := results[0]
	require.True(t, good.Success, good.Error)
	assert.Equal(t, "Crate", good.Object)
	assert.Equal(t, 20, good.ResolutionX)
	assert.Equal(t, 30, good.ResolutionY)
	assert.InDelta(t, 3.0, good.OrthoScale, 1e-9)
	assert.InDelta(t, 90, good.Rotation[0], 1e-9)
	assert.InDelta(t, -15, good.Location[1], 1e-9)

	data, err := os.ReadFile(good.Image)
	require.NoError(t, err)
	require.Greater(t, len(data), 12)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WEBP", string(data[8:12]))
	assert.FileExists(t, good.SceneOut)

	bad := results[1]
	assert.False(t, bad.Success)
	assert.Contains(t, bad.Error, "no camera")
	assert.NoFileExists(t, filepath.Join(out, "nocam.webp"))

	manifest := filepath.Join(out, "manifest.json")
	require.NoError(t, WriteManifest(manifest, results))
	raw, err := os.ReadFile(manifest)
	require.NoError(t, err)

	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "good.webp", entries[0].Image)
	assert.Equal(t, "../good.yaml", entries[0].Scene)
	assert.Equal(t, 30, entries[0].ResolutionY)
}

func TestProcessFrameOnly(t *testing.T) {
	_, scenes := setup(t)
	res := Process(Config{}, scenes[0])

	require.True(t, res.Success, res.Error)
	// scene settings are kept when the config leaves them unset
	assert.Equal(t, 200, res.ResolutionX)
	assert.Equal(t, 459, res.ResolutionY)
	assert.Empty(t, res.Image)
	assert.Empty(t, res.SceneOut)
}

func TestProcessMissingScene(t *testing.T) {
	res := Process(Config{}, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestProcessTopDownOverride(t *testing.T) {
	dir, _ := setup(t)
	path := filepath.Join(dir, "bare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bareScene), 0644))

	var settings config.Config
	settings.Resolve(config.Flags{AngleSet: true, CameraAngle: 0})
	res := Process(Config{Settings: settings}, path)

	require.True(t, res.Success, res.Error)
	assert.InDelta(t, 0, res.Rotation[0], 1e-9)
	assert.Equal(t, 200, res.ResolutionX)
	assert.Equal(t, 400, res.ResolutionY)

	// without an override the add-on default of 60° applies
	res = Process(Config{}, path)
	require.True(t, res.Success, res.Error)
	assert.InDelta(t, 60, res.Rotation[0], 1e-9)
	assert.Equal(t, 459, res.ResolutionY)
}

func TestProcessOversizedPreview(t *testing.T) {
	dir, scenes := setup(t)
	out := filepath.Join(dir, "out")

	res := Process(Config{
		Settings:    config.Config{PixelsPerUnit: 5000},
		OutputDir:   out,
		Preview:     true,
		WriteScenes: true,
		Supersample: 2,
	}, scenes[0])

	require.True(t, res.Success, res.Error)
	assert.Equal(t, 10000, res.ResolutionX)
	assert.Equal(t, 22990, res.ResolutionY)
	assert.Contains(t, res.Warning, "too large")
	assert.Empty(t, res.Image)
	assert.NoFileExists(t, filepath.Join(out, "good.webp"))
	assert.FileExists(t, res.SceneOut)
}
