package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pixel-constant-renderer/internal/framing"
	"pixel-constant-renderer/internal/mathutil"
	"pixel-constant-renderer/internal/mesh"
)

// Precondition failures of UpdateCamera. None of them mutate the scene.
var (
	ErrNotObjectMode  = errors.New("scene: not in object mode")
	ErrNoActiveObject = errors.New("scene: no active object")
	ErrNotMesh        = errors.New("scene: active object is not a mesh")
	ErrNoCamera       = errors.New("scene: no camera in scene")
)

// Load reads a scene YAML file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	s.Dir = filepath.Dir(path)
	return &s, nil
}

// Save writes the scene as YAML. Relative mesh and texture paths are
// rewritten so they still resolve from the new file's directory.
func (s *Scene) Save(path string) error {
	out := *s
	out.Objects = make([]*Object, len(s.Objects))
	for i, o := range s.Objects {
		c := *o
		c.Mesh = s.rebase(o.Mesh, filepath.Dir(path))
		c.Texture = s.rebase(o.Texture, filepath.Dir(path))
		out.Objects[i] = &c
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("scene: marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("scene: write %s: %w", path, err)
	}
	return nil
}

// Find returns the object with the given name, or nil.
func (s *Scene) Find(name string) *Object {
	if name == "" {
		return nil
	}
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Resolve makes a mesh or texture path absolute against the scene directory.
func (s *Scene) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Dir, p)
}

func (s *Scene) rebase(p, dir string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	rel, err := filepath.Rel(dir, s.Resolve(p))
	if err != nil {
		return s.Resolve(p)
	}
	return filepath.ToSlash(rel)
}

// Poll reports whether UpdateCamera can run, returning the active mesh object
// and the scene camera when it can.
func (s *Scene) Poll() (active, camera *Object, err error) {
	if s.Mode != "" && s.Mode != ModeObject {
		return nil, nil, ErrNotObjectMode
	}
	active = s.Find(s.ActiveObject)
	if active == nil {
		return nil, nil, ErrNoActiveObject
	}
	if active.Type != TypeMesh {
		return nil, nil, fmt.Errorf("%w: %s is %s", ErrNotMesh, active.Name, active.Type)
	}
	camera = s.Find(s.Camera)
	if camera == nil || camera.Type != TypeCamera {
		return nil, nil, ErrNoCamera
	}
	return active, camera, nil
}

// Result describes one successful camera update.
type Result struct {
	Object string
	Mesh   *mesh.Mesh
	World  mathutil.Mat4
	BBox   framing.BoundingBox
	Pose   framing.CameraPose
	Target framing.RenderTarget
	Camera framing.Camera
}

// UpdateCamera frames the active mesh object with the scene camera using the
// scene's framing settings. On any error the scene is left untouched.
func (s *Scene) UpdateCamera() (*Result, error) {
	active, camObj, err := s.Poll()
	if err != nil {
		return nil, err
	}

	m, err := mesh.Load(s.Resolve(active.Mesh))
	if err != nil {
		return nil, err
	}

	world := active.WorldMatrix()
	bbox, err := mesh.Bounds(m.Verts, world)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", active.Name, err)
	}

	cam := camObj.cameraData()
	rs := &framing.RenderSettings{ResolutionX: s.Render.ResolutionX, ResolutionY: s.Render.ResolutionY}
	pose, target := framing.UpdateCamera(cam, rs, bbox, s.Settings.Params())

	camObj.setCameraData(cam)
	s.Render = RenderSettings{ResolutionX: rs.ResolutionX, ResolutionY: rs.ResolutionY}

	return &Result{
		Object: active.Name,
		Mesh:   m,
		World:  world,
		BBox:   bbox,
		Pose:   pose,
		Target: target,
		Camera: *cam,
	}, nil
}

// IsPrecondition reports whether err is a failed UpdateCamera precondition,
// as opposed to an I/O or parse failure.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNotObjectMode) ||
		errors.Is(err, ErrNoActiveObject) ||
		errors.Is(err, ErrNotMesh) ||
		errors.Is(err, ErrNoCamera)
}
