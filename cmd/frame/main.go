package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"pixel-constant-renderer/internal/batch"
	"pixel-constant-renderer/internal/config"
	"pixel-constant-renderer/internal/scene"
	"pixel-constant-renderer/internal/texture"
	"pixel-constant-renderer/internal/watch"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	ppu := flag.Float64("ppu", 0, "Pixels per unit (default: scene value, else 100)")
	angle := flag.Float64("angle", 0, "Camera angle in degrees, 0 = top-down, 90 = front")
	distance := flag.Float64("distance", 0, "Camera distance from the object center")
	outputDir := flag.String("output", "", "Directory for the framed scene and preview, relative to the scene (default: renders)")
	preview := flag.Bool("preview", false, "Render a WebP preview at the framed resolution")
	write := flag.Bool("write", false, "Write the updated scene YAML to the output directory")
	asJSON := flag.Bool("json", false, "Print the result as JSON")
	watchMode := flag.Bool("watch", false, "Re-frame whenever the scene, mesh or texture changes")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: frame [flags] scene.yaml\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	scenePath := flag.Arg(0)

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		PixelsPerUnit:  *ppu,
		CameraAngle:    *angle,
		CameraDistance: *distance,
		AngleSet:       set["angle"],
		SceneDir:       filepath.Dir(scenePath),
		OutputDir:      *outputDir,
		Preview:        *preview,
		PreviewSet:     set["preview"],
	})

	bcfg := batch.Config{
		Settings:    cfg,
		OutputDir:   cfg.OutputDir,
		TexResolver: texture.NewCache(),
		Preview:     cfg.PreviewEnabled(false),
		WriteScenes: *write,
		Supersample: cfg.Supersample,
		Workers:     1,
	}

	ok := frame(bcfg, scenePath, *asJSON)
	if !*watchMode {
		if !ok {
			os.Exit(1)
		}
		return
	}

	runWatch(bcfg, scenePath, *asJSON)
}

// frame runs the update command once and reports the outcome.
func frame(cfg batch.Config, scenePath string, asJSON bool) bool {
	res := batch.Process(cfg, scenePath)
	if !res.Success {
		fmt.Fprintf(os.Stderr, "Cannot update camera: %s\n", res.Error)
		return false
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
		return true
	}

	fmt.Printf("Object:      %s\n", res.Object)
	fmt.Printf("Resolution:  %d x %d\n", res.ResolutionX, res.ResolutionY)
	fmt.Printf("Ortho scale: %.4f\n", res.OrthoScale)
	fmt.Printf("Camera:      location (%.4f, %.4f, %.4f) rotation (%.2f°, %.2f°, %.2f°)\n",
		res.Location[0], res.Location[1], res.Location[2],
		res.Rotation[0], res.Rotation[1], res.Rotation[2])
	if res.Warning != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", res.Warning)
	}
	if res.SceneOut != "" {
		fmt.Printf("Scene:       %s\n", res.SceneOut)
	}
	if res.Image != "" {
		fmt.Printf("Preview:     %s\n", res.Image)
	}
	return true
}

func runWatch(cfg batch.Config, scenePath string, asJSON bool) {
	paths := []string{scenePath}
	if s, err := scene.Load(scenePath); err == nil {
		if obj := s.Find(s.ActiveObject); obj != nil {
			paths = append(paths, s.Resolve(obj.Mesh))
			if obj.Texture != "" {
				paths = append(paths, s.Resolve(obj.Texture))
			}
		}
	}

	w, err := watch.NewWatcher(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting watcher: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	// Our own outputs can land in a watched directory.
	stem := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
	w.Ignore(
		filepath.Join(cfg.OutputDir, stem+".yaml"),
		filepath.Join(cfg.OutputDir, stem+".webp"),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	fmt.Println("Watching for changes (Ctrl-C to stop)...")
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			fmt.Printf("\n%s changed\n", name)
			// Textures are re-read on change.
			cfg.TexResolver = texture.NewCache()
			frame(cfg, scenePath, asJSON)
		case err, ok := <-w.Errors:
			if ok {
				fmt.Fprintf(os.Stderr, "Warning: watch: %v\n", err)
			}
		case <-stop:
			return
		}
	}
}
