// Package framing positions an orthographic camera so that an axis-aligned
// bounding box is rendered at a constant number of pixels per world unit.
package framing

import "pixel-constant-renderer/internal/mathutil"

// BoundingBox is a world-space axis-aligned box. Min <= Max on every axis.
type BoundingBox struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() mathutil.Vec3 {
	return mathutil.Vec3{
		(b.MinX + b.MaxX) / 2,
		(b.MinY + b.MaxY) / 2,
		(b.MinZ + b.MaxZ) / 2,
	}
}

// Size returns the extent along X, Y and Z.
func (b BoundingBox) Size() mathutil.Vec3 {
	return mathutil.Vec3{b.MaxX - b.MinX, b.MaxY - b.MinY, b.MaxZ - b.MinZ}
}

// FramingParameters are the user-facing settings of the framer.
type FramingParameters struct {
	PixelsPerUnit      float64 // rendered pixels per world unit
	AngleDegrees       float64 // 0 = straight down, 90 = straight forward
	DistanceFromCenter float64 // camera offset from the box center along the tilt
}

// CameraPose is a camera location and XYZ Euler rotation in radians.
type CameraPose struct {
	Position mathutil.Vec3
	Rotation mathutil.Vec3
}

// RenderTarget is the output image size and the orthographic scale that
// maps the larger of the two dimensions to world units.
type RenderTarget struct {
	ResolutionX int
	ResolutionY int
	OrthoScale  float64
}

// Projection is a camera projection type.
type Projection string

const (
	Perspective  Projection = "PERSP"
	Orthographic Projection = "ORTHO"
)

// Camera is a caller-owned camera entity that UpdateCamera writes into.
type Camera struct {
	Location   mathutil.Vec3
	Rotation   mathutil.Vec3 // Euler XYZ, radians
	Projection Projection
	OrthoScale float64
}

// Pose returns the camera's current location and rotation.
func (c *Camera) Pose() CameraPose {
	return CameraPose{Position: c.Location, Rotation: c.Rotation}
}

// RenderSettings is the caller-owned render resolution entity.
type RenderSettings struct {
	ResolutionX int
	ResolutionY int
}
