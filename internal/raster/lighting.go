package raster

import (
	"math"

	"pixel-constant-renderer/internal/mathutil"
)

// LightConfig is the fixed preview lighting. Directions are in screen space:
// x right, y down, z toward the viewer.
type LightConfig struct {
	Key     mathutil.Vec3
	Rim     mathutil.Vec3
	Half    mathutil.Vec3 // Blinn-Phong half vector of Key and the view
	Ambient float64
	Sky     float64 // hemisphere fill for normals facing up the image
	Ground  float64 // and for those facing down
	KeyInt  float64
	RimInt  float64
	SpecInt float64
	SpecPow float64

	Exposure float64
	invGamma float64
}

// DefaultLightConfig returns a three-quarter key light from the upper left
// and a rim light from behind.
func DefaultLightConfig() LightConfig {
	key := mathutil.Vec3{-0.45, -0.6, 0.66}.Normalize()
	rim := mathutil.Vec3{0.7, -0.35, -0.6}.Normalize()
	toViewer := mathutil.Vec3{0, 0, 1}

	return LightConfig{
		Key:      key,
		Rim:      rim,
		Half:     key.Add(toViewer).Normalize(),
		Ambient:  0.45,
		Sky:      0.45,
		Ground:   0.25,
		KeyInt:   1.20,
		RimInt:   0.35,
		SpecInt:  0.25,
		SpecPow:  16,
		Exposure: 1,
		invGamma: 1 / 2.2,
	}
}

// Shade returns the light intensity for a unit face normal. Faces are lit
// from both sides since meshes need not be closed.
func (lc *LightConfig) Shade(n mathutil.Vec3) float64 {
	if n[2] < 0 {
		n = n.Scale(-1)
	}

	// up the image is -y
	up := -n[1]*0.5 + 0.5
	hemi := lc.Sky*up + lc.Ground*(1-up)

	key := max(n.Dot(lc.Key), 0)
	rim := math.Abs(n.Dot(lc.Rim))
	spec := math.Pow(max(n.Dot(lc.Half), 0), lc.SpecPow)

	return lc.Ambient + hemi + key*lc.KeyInt + rim*lc.RimInt + spec*lc.SpecInt
}

// Encode lights an sRGB channel value: decode to linear, scale by shade,
// ACES tone map and re-encode.
func (lc *LightConfig) Encode(c uint8, shade float64) uint8 {
	v := acesFilmic(srgbToLinear[c] * shade * lc.Exposure)
	return clamp255(math.Pow(v, lc.invGamma) * 255)
}

var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math.Pow(float64(i)/255, 2.2)
	}
}

func acesFilmic(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
