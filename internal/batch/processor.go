package batch

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"pixel-constant-renderer/internal/config"
	"pixel-constant-renderer/internal/mathutil"
	"pixel-constant-renderer/internal/postprocess"
	"pixel-constant-renderer/internal/raster"
	"pixel-constant-renderer/internal/scene"
	"pixel-constant-renderer/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Settings    config.Config
	OutputDir   string
	TexResolver texture.Resolver
	Preview     bool
	WriteScenes bool
	Supersample int
	Workers     int
	Progress    time.Duration // zero disables progress output
}

// Result holds the outcome of processing one scene.
type Result struct {
	Scene       string
	Object      string
	ResolutionX int
	ResolutionY int
	OrthoScale  float64
	Location    [3]float64
	Rotation    [3]float64 // degrees
	Image       string
	SceneOut    string
	Success     bool
	Error       string
	Warning     string
}

// Run processes all scene files using a worker pool. Results are in input order.
func Run(cfg Config, scenes []string) []Result {
	total := len(scenes)
	results := make([]Result, total)
	var processed atomic.Int64
	workers := max(cfg.Workers, 1)

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						fmt.Printf("  [%d/%d] %.1f scenes/sec\n", p, total, float64(p)/elapsed)
					}
				}
			}
		}()
	}

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = Process(cfg, scenes[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range scenes {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

// Process frames one scene and, when configured, writes its preview and the
// updated scene file.
func Process(cfg Config, path string) Result {
	res := Result{Scene: path}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	s, err := scene.Load(path)
	if err != nil {
		return fail(err)
	}
	cfg.Settings.Apply(&s.Settings)

	upd, err := s.UpdateCamera()
	if err != nil {
		return fail(err)
	}

	res.Object = upd.Object
	res.ResolutionX = upd.Target.ResolutionX
	res.ResolutionY = upd.Target.ResolutionY
	res.OrthoScale = upd.Target.OrthoScale
	res.Location = upd.Pose.Position
	for i := 0; i < 3; i++ {
		res.Rotation[i] = mathutil.Rad2Deg(upd.Pose.Rotation[i])
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if cfg.Preview || cfg.WriteScenes {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return fail(err)
		}
	}

	// Preview first so a failed render leaves no framed scene behind.
	if cfg.Preview {
		out := filepath.Join(cfg.OutputDir, stem+".webp")
		warning, err := writePreview(cfg, s, upd, out)
		switch {
		case errors.Is(err, raster.ErrEmptyTarget), errors.Is(err, raster.ErrTargetTooLarge):
			// still a valid framing, the preview just cannot be drawn
			res.Warning = "preview skipped: " + err.Error()
		case err != nil:
			return fail(err)
		default:
			res.Image = out
			res.Warning = warning
		}
	}

	if cfg.WriteScenes {
		out := filepath.Join(cfg.OutputDir, stem+".yaml")
		if err := s.Save(out); err != nil {
			return fail(err)
		}
		res.SceneOut = out
	}

	res.Success = true
	return res
}

// writePreview renders and encodes the framed object. The supersample factor
// is lowered when the full one would exceed the raster size limit.
func writePreview(cfg Config, s *scene.Scene, upd *scene.Result, out string) (string, error) {
	var warning string
	want := max(cfg.Supersample, 1)
	ss := raster.FitSupersample(upd.Target, want)
	if ss == 0 {
		ss = 1 // Render reports ErrTargetTooLarge
	} else if ss < want {
		warning = fmt.Sprintf("preview supersample lowered from %d to %d", want, ss)
	}

	opts := raster.Options{Supersample: ss}
	if cfg.TexResolver != nil {
		if obj := s.Find(upd.Object); obj != nil && obj.Texture != "" {
			opts.Texture = cfg.TexResolver.Resolve(s.Resolve(obj.Texture))
		}
	}

	img, err := raster.Render(upd.Mesh, upd.World, upd.Camera, upd.Target, opts)
	if err != nil {
		return "", err
	}
	if opts.Supersample > 1 {
		img = postprocess.Downsample(img, upd.Target.ResolutionX, upd.Target.ResolutionY)
	}

	return warning, EncodeWebP(out, img)
}

// EncodeWebP writes img to path as lossless WebP.
func EncodeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("webp encode %s: %w", path, err)
	}
	return f.Close()
}
