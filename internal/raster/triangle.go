package raster

import (
	"image"
	"math"

	"pixel-constant-renderer/internal/mathutil"
)

// Surface is the per-mesh shading input of RasterizeTriangle.
type Surface struct {
	UVs     [][2]float32
	Texture *image.NRGBA
	Base    [4]uint8 // RGBA used when there is no texture or no UVs
}

// RasterizeTriangle rasterizes a single screen-space triangle with optional
// texture mapping, z-buffer, flat shading and ACES tone mapping.
//
// Inner pixel loop does not allocate.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	vi [3]int, ti [3]int,
	surf *Surface,
	lc *LightConfig,
) {
	nv := len(px)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	hasUV := surf.Texture != nil
	for _, i := range ti {
		if i < 0 || i >= len(surf.UVs) {
			hasUV = false
			break
		}
	}

	var u0, v0, u1, v1, u2, v2 float64
	if hasUV {
		u0, v0 = float64(surf.UVs[ti[0]][0]), float64(surf.UVs[ti[0]][1])
		u1, v1 = float64(surf.UVs[ti[1]][0]), float64(surf.UVs[ti[1]][1])
		u2, v2 = float64(surf.UVs[ti[2]][0]), float64(surf.UVs[ti[2]][1])
	}

	// Face normal for flat shading
	e1 := mathutil.Vec3{x1 - x0, y1 - y0, z1 - z0}
	e2 := mathutil.Vec3{x2 - x0, y2 - y0, z2 - z0}
	n := e1.Cross(e2)
	if n.Len() < 1e-8 {
		return
	}
	shade := lc.Shade(n.Normalize())

	// Bounding box, clipped to the buffer
	minX := max(int(math.Floor(math.Min(math.Min(x0, x1), x2))), 0)
	maxX := min(int(math.Ceil(math.Max(math.Max(x0, x1), x2))), fb.Width-1)
	minY := max(int(math.Floor(math.Min(math.Min(y0, y1), y2))), 0)
	maxY := min(int(math.Ceil(math.Max(math.Max(y0, y1), y2))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// Sample at pixel centers
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			cr, cg, cb, ca := surf.Base[0], surf.Base[1], surf.Base[2], surf.Base[3]
			if hasUV {
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0 + w1*v1 + w2*v2
				// texture rows run top-down, V runs bottom-up
				cr, cg, cb, ca = SampleTexture(surf.Texture, u, 1-v)
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = lc.Encode(cr, shade)
			fb.Color[pxIdx+1] = lc.Encode(cg, shade)
			fb.Color[pxIdx+2] = lc.Encode(cb, shade)
			fb.Color[pxIdx+3] = ca
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
