package framing

import (
	"math"

	"pixel-constant-renderer/internal/mathutil"
)

// Frame computes the camera pose and render target that frame bbox at the
// given tilt angle and pixel density. It is a pure function and never fails;
// a zero extent on an axis yields a zero resolution on the matching screen
// axis.
func Frame(bbox BoundingBox, p FramingParameters) (CameraPose, RenderTarget) {
	center := bbox.Center()
	angle := mathutil.Deg2Rad(p.AngleDegrees)
	cos, sin := math.Cos(angle), math.Sin(angle)

	zOffset := cos * p.DistanceFromCenter
	yOffset := sin * p.DistanceFromCenter

	pose := CameraPose{
		Position: mathutil.Vec3{center[0], center[1] - yOffset, center[2] + zOffset},
		Rotation: mathutil.Vec3{angle, 0, 0},
	}

	horizontal := bbox.MaxX - bbox.MinX
	vertical := bbox.MaxZ - bbox.MinZ
	depth := bbox.MaxY - bbox.MinY
	projectedDepth := ProjectedDepth(depth, vertical, angle)

	target := RenderTarget{
		ResolutionX: int(p.PixelsPerUnit * horizontal),
		ResolutionY: int(p.PixelsPerUnit * projectedDepth),
	}
	if target.ResolutionY < target.ResolutionX {
		target.OrthoScale = horizontal
	} else {
		target.OrthoScale = projectedDepth
	}
	return pose, target
}

// ProjectedDepth is the on-screen vertical extent of a box with the given
// Y depth and Z height, seen by a camera tilted angle radians from top-down.
func ProjectedDepth(depth, vertical, angle float64) float64 {
	return depth*math.Cos(angle) + vertical*math.Sin(angle)
}

// UpdateCamera applies Frame to the caller-owned camera and render settings.
// The camera is switched to an orthographic projection.
func UpdateCamera(cam *Camera, rs *RenderSettings, bbox BoundingBox, p FramingParameters) (CameraPose, RenderTarget) {
	pose, target := Frame(bbox, p)

	cam.Location = pose.Position
	cam.Rotation = pose.Rotation
	cam.Projection = Orthographic
	cam.OrthoScale = target.OrthoScale

	rs.ResolutionX = target.ResolutionX
	rs.ResolutionY = target.ResolutionY
	return pose, target
}
