package scene

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"pixel-constant-renderer/internal/framing"
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

const sceneYAML = `name: Demo
mode: OBJECT
active_object: Crate
camera: Camera
settings:
  pixels_per_unit: 100
  camera_angle: 60
  camera_distance: 15
render:
  resolution_x: 1920
  resolution_y: 1080
objects:
  - name: Crate
    type: MESH
    mesh: cube.obj
    location: [0, 0, 1.5]
    scale: [1, 2, 1.5]
  - name: Lamp
    type: EMPTY
  - name: Camera
    type: CAMERA
    location: [7, -7, 5]
    rotation: [63, 0, 46]
    projection: PERSP
`

func writeScene(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cube.obj"), []byte(cubeOBJ), 0644))
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestUpdateCamera(t *testing.T) {
	path := writeScene(t, sceneYAML)
	s, err := Load(path)
	require.NoError(t, err)

	res, err := s.UpdateCamera()
	require.NoError(t, err)

	assert.Equal(t, "Crate", res.Object)
	assert.Equal(t, framing.BoundingBox{MinX: -1, MaxX: 1, MinY: -2, MaxY: 2, MinZ: 0, MaxZ: 3}, res.BBox)
	assert.Equal(t, framing.RenderTarget{ResolutionX: 200, ResolutionY: 459, OrthoScale: res.Target.OrthoScale}, res.Target)
	assert.InDelta(t, 4.598076, res.Target.OrthoScale, 1e-6)

	assert.Equal(t, RenderSettings{ResolutionX: 200, ResolutionY: 459}, s.Render)

	cam := s.Find("Camera")
	require.NotNil(t, cam)
	assert.Equal(t, string(framing.Orthographic), cam.Projection)
	assert.InDelta(t, res.Target.OrthoScale, cam.OrthoScale, 1e-12)
	require.Len(t, cam.Location, 3)
	assert.InDelta(t, 0, cam.Location[0], 1e-9)
	assert.InDelta(t, -15*math.Sin(math.Pi/3), cam.Location[1], 1e-9)
	assert.InDelta(t, 9.0, cam.Location[2], 1e-9)
	require.Len(t, cam.Rotation, 3)
	assert.InDelta(t, 60, cam.Rotation[0], 1e-9)
	assert.Equal(t, 0.0, cam.Rotation[1])
	assert.Equal(t, 0.0, cam.Rotation[2])
}

func TestUpdateCameraIdempotent(t *testing.T) {
	s, err := Load(writeScene(t, sceneYAML))
	require.NoError(t, err)

	first, err := s.UpdateCamera()
	require.NoError(t, err)
	second, err := s.UpdateCamera()
	require.NoError(t, err)

	assert.Equal(t, first.Pose, second.Pose)
	assert.Equal(t, first.Target, second.Target)
}

func TestSaveLoad(t *testing.T) {
	path := writeScene(t, sceneYAML)
	s, err := Load(path)
	require.NoError(t, err)
	_, err = s.UpdateCamera()
	require.NoError(t, err)

	out := filepath.Join(filepath.Dir(path), "framed.yaml")
	require.NoError(t, s.Save(out))

	back, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, s.Render, back.Render)
	assert.Equal(t, s.Settings, back.Settings)
	assert.Equal(t, "ORTHO", back.Find("Camera").Projection)
	assert.Equal(t, filepath.Join(back.Dir, "cube.obj"), back.Resolve(back.Find("Crate").Mesh))
}

func TestPollPreconditions(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *Scene)
		want   error
	}{
		{"edit mode", func(s *Scene) { s.Mode = "EDIT" }, ErrNotObjectMode},
		{"no active object", func(s *Scene) { s.ActiveObject = "" }, ErrNoActiveObject},
		{"unknown active object", func(s *Scene) { s.ActiveObject = "Ghost" }, ErrNoActiveObject},
		{"active is empty", func(s *Scene) { s.ActiveObject = "Lamp" }, ErrNotMesh},
		{"no camera", func(s *Scene) { s.Camera = "" }, ErrNoCamera},
		{"camera is not a camera", func(s *Scene) { s.Camera = "Lamp" }, ErrNoCamera},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Load(writeScene(t, sceneYAML))
			require.NoError(t, err)
			tc.mutate(s)

			before := *s.Find("Camera")
			_, err = s.UpdateCamera()
			assert.ErrorIs(t, err, tc.want)

			// fails softly: nothing written
			assert.Equal(t, before, *s.Find("Camera"))
			assert.Equal(t, RenderSettings{ResolutionX: 1920, ResolutionY: 1080}, s.Render)
		})
	}
}

func TestUpdateCameraMissingMesh(t *testing.T) {
	s, err := Load(writeScene(t, sceneYAML))
	require.NoError(t, err)
	s.Find("Crate").Mesh = "nope.obj"

	_, err = s.UpdateCamera()
	assert.Error(t, err)
	assert.Equal(t, "PERSP", s.Find("Camera").Projection)
}

func TestWorldMatrixDefaults(t *testing.T) {
	o := &Object{Name: "x", Type: TypeMesh}
	assert.True(t, o.WorldMatrix().IsIdentity())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeScene(t, "objects: {not: [a list"))
	assert.Error(t, err)
}

func TestIsPrecondition(t *testing.T) {
	assert.True(t, IsPrecondition(ErrNoCamera))
	assert.True(t, IsPrecondition(fmt.Errorf("%w: Lamp is EMPTY", ErrNotMesh)))
	assert.False(t, IsPrecondition(os.ErrNotExist))
}

func TestSaveRebasesPaths(t *testing.T) {
	path := writeScene(t, sceneYAML)
	s, err := Load(path)
	require.NoError(t, err)

	out := filepath.Join(filepath.Dir(path), "renders", "framed.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(out), 0755))
	require.NoError(t, s.Save(out))

	// the in-memory scene keeps its own paths
	assert.Equal(t, "cube.obj", s.Find("Crate").Mesh)

	back, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, "../cube.obj", back.Find("Crate").Mesh)
	_, err = back.UpdateCamera()
	assert.NoError(t, err)
}

func TestSettingsTopDownAngle(t *testing.T) {
	var s Scene
	require.NoError(t, yaml.Unmarshal([]byte("settings:\n  camera_angle: 0\n"), &s))
	require.NotNil(t, s.Settings.CameraAngle)
	assert.Equal(t, 0.0, s.Settings.Params().AngleDegrees)

	s = Scene{}
	require.NoError(t, yaml.Unmarshal([]byte("settings:\n  pixels_per_unit: 10\n"), &s))
	assert.Nil(t, s.Settings.CameraAngle)
	assert.Equal(t, DefaultCameraAngle, s.Settings.Params().AngleDegrees)
}
