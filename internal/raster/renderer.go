package raster

import (
	"errors"
	"fmt"
	"image"

	"pixel-constant-renderer/internal/framing"
	"pixel-constant-renderer/internal/mathutil"
	"pixel-constant-renderer/internal/mesh"
)

// MaxDimension caps either side of the supersampled framebuffer.
const MaxDimension = 16384

var (
	ErrEmptyTarget    = errors.New("raster: render target has a zero dimension")
	ErrTargetTooLarge = errors.New("raster: render target too large")
)

// Options controls preview rendering.
type Options struct {
	Supersample int
	Texture     *image.NRGBA
	Base        [4]uint8 // zero means the default grey
}

var defaultBase = [4]uint8{160, 160, 170, 255}

// View maps world points to pixel coordinates of an orthographic camera.
type View struct {
	R      mathutil.Mat3 // world → camera rotation
	Eye    mathutil.Vec3
	Scale  float64 // pixels per world unit
	Width  int
	Height int
}

// NewView builds the orthographic view for cam rendering into a w×h image.
// The ortho scale spans the larger image dimension.
func NewView(cam framing.Camera, w, h int) View {
	r := mathutil.EulerXYZ(cam.Rotation[0], cam.Rotation[1], cam.Rotation[2])
	return View{
		R:      r.Transpose(),
		Eye:    cam.Location,
		Scale:  float64(max(w, h)) / cam.OrthoScale,
		Width:  w,
		Height: h,
	}
}

// Project returns pixel x, pixel y (down) and depth (larger is closer),
// all in pixel units.
func (v View) Project(p mathutil.Vec3) (float64, float64, float64) {
	c := v.R.MulVec3(p.Sub(v.Eye))
	return c[0]*v.Scale + float64(v.Width)/2, -c[1]*v.Scale + float64(v.Height)/2, c[2] * v.Scale
}

// FitSupersample returns the largest factor up to ss at which target still
// fits within MaxDimension, or 0 if it does not fit even at 1.
func FitSupersample(target framing.RenderTarget, ss int) int {
	ss = max(ss, 1)
	side := max(target.ResolutionX, target.ResolutionY)
	if side <= 0 {
		return ss
	}
	return min(ss, MaxDimension/side)
}

// Render draws m under world as seen by cam into an image of exactly
// target.ResolutionX × target.ResolutionY pixels times the supersample factor.
func Render(m *mesh.Mesh, world mathutil.Mat4, cam framing.Camera, target framing.RenderTarget, opts Options) (*image.NRGBA, error) {
	ss := max(opts.Supersample, 1)
	if target.ResolutionX <= 0 || target.ResolutionY <= 0 || target.OrthoScale <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyTarget, target.ResolutionX, target.ResolutionY)
	}
	w, h := target.ResolutionX*ss, target.ResolutionY*ss
	if w > MaxDimension || h > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrTargetTooLarge, w, h)
	}

	cam.OrthoScale = target.OrthoScale
	view := NewView(cam, w, h)

	verts := mesh.WorldVerts(m.Verts, world)
	px := make([]float64, len(verts))
	py := make([]float64, len(verts))
	pz := make([]float64, len(verts))
	for i, v := range verts {
		px[i], py[i], pz[i] = view.Project(v)
	}

	surf := &Surface{UVs: m.UVs, Texture: opts.Texture, Base: opts.Base}
	if surf.Base == ([4]uint8{}) {
		surf.Base = defaultBase
		if opts.Texture != nil {
			surf.Base = averageColor(opts.Texture)
		}
	}

	fb := NewFrameBuffer(w, h)
	lc := DefaultLightConfig()
	for _, tri := range m.Tris {
		RasterizeTriangle(fb, px, py, pz, tri.VI, tri.TI, surf, &lc)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, fb.Color)
	return img, nil
}

func averageColor(tex *image.NRGBA) [4]uint8 {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return defaultBase
	}

	var sumR, sumG, sumB float64
	for y := 0; y < h; y++ {
		off := y * tex.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return [4]uint8{uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255}
}
