package scene

import (
	"pixel-constant-renderer/internal/framing"
	"pixel-constant-renderer/internal/mathutil"
)

// Object types understood by the update command.
const (
	TypeMesh   = "MESH"
	TypeCamera = "CAMERA"
	TypeEmpty  = "EMPTY"
)

// ModeObject is the only interaction mode in which the camera can be updated.
const ModeObject = "OBJECT"

// Scene is a flat object list with one active object and one scene camera.
type Scene struct {
	Name         string         `yaml:"name,omitempty"`
	Mode         string         `yaml:"mode,omitempty"`
	ActiveObject string         `yaml:"active_object,omitempty"`
	Camera       string         `yaml:"camera,omitempty"`
	Settings     Settings       `yaml:"settings"`
	Render       RenderSettings `yaml:"render"`
	Objects      []*Object      `yaml:"objects"`

	// Dir is the directory relative mesh and texture paths resolve against.
	Dir string `yaml:"-"`
}

// DefaultCameraAngle is used while a scene leaves camera_angle unset.
const DefaultCameraAngle = 60.0

// Settings are the framing properties shown in the panel. CameraAngle is a
// pointer because 0 (top-down) is a valid angle distinct from "unset".
type Settings struct {
	PixelsPerUnit  float64  `yaml:"pixels_per_unit"`
	CameraAngle    *float64 `yaml:"camera_angle,omitempty"`
	CameraDistance float64  `yaml:"camera_distance"`
}

// Angle returns the camera angle in degrees, or DefaultCameraAngle if unset.
func (s Settings) Angle() float64 {
	if s.CameraAngle == nil {
		return DefaultCameraAngle
	}
	return *s.CameraAngle
}

// Params converts the settings to framing parameters.
func (s Settings) Params() framing.FramingParameters {
	return framing.FramingParameters{
		PixelsPerUnit:      s.PixelsPerUnit,
		AngleDegrees:       s.Angle(),
		DistanceFromCenter: s.CameraDistance,
	}
}

// RenderSettings holds the output resolution.
type RenderSettings struct {
	ResolutionX int `yaml:"resolution_x"`
	ResolutionY int `yaml:"resolution_y"`
}

// Object is one scene entity. Rotation is XYZ Euler in degrees.
type Object struct {
	Name     string    `yaml:"name"`
	Type     string    `yaml:"type"`
	Mesh     string    `yaml:"mesh,omitempty"`
	Texture  string    `yaml:"texture,omitempty"`
	Location []float64 `yaml:"location,flow,omitempty"`
	Rotation []float64 `yaml:"rotation,flow,omitempty"`
	Scale    []float64 `yaml:"scale,flow,omitempty"`

	// Camera data, only meaningful for CAMERA objects.
	Projection string  `yaml:"projection,omitempty"`
	OrthoScale float64 `yaml:"ortho_scale,omitempty"`
}

// WorldMatrix returns T · Rz · Ry · Rx · S for the object.
func (o *Object) WorldMatrix() mathutil.Mat4 {
	rot := toVec3(o.Rotation, mathutil.Vec3{})
	rad := mathutil.Vec3{mathutil.Deg2Rad(rot[0]), mathutil.Deg2Rad(rot[1]), mathutil.Deg2Rad(rot[2])}
	return mathutil.Compose(toVec3(o.Location, mathutil.Vec3{}), rad, toVec3(o.Scale, mathutil.Vec3{1, 1, 1}))
}

// cameraData copies a CAMERA object into the framer's camera entity.
func (o *Object) cameraData() *framing.Camera {
	rot := toVec3(o.Rotation, mathutil.Vec3{})
	proj := framing.Projection(o.Projection)
	if proj == "" {
		proj = framing.Perspective
	}
	return &framing.Camera{
		Location:   toVec3(o.Location, mathutil.Vec3{}),
		Rotation:   mathutil.Vec3{mathutil.Deg2Rad(rot[0]), mathutil.Deg2Rad(rot[1]), mathutil.Deg2Rad(rot[2])},
		Projection: proj,
		OrthoScale: o.OrthoScale,
	}
}

// setCameraData writes a framer camera back onto a CAMERA object.
func (o *Object) setCameraData(c *framing.Camera) {
	o.Location = []float64{c.Location[0], c.Location[1], c.Location[2]}
	o.Rotation = []float64{
		mathutil.Rad2Deg(c.Rotation[0]),
		mathutil.Rad2Deg(c.Rotation[1]),
		mathutil.Rad2Deg(c.Rotation[2]),
	}
	o.Projection = string(c.Projection)
	o.OrthoScale = c.OrthoScale
}

func toVec3(s []float64, def mathutil.Vec3) mathutil.Vec3 {
	if len(s) == 0 {
		return def
	}
	v := def
	for i := 0; i < 3 && i < len(s); i++ {
		v[i] = s[i]
	}
	return v
}
