package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"pixel-constant-renderer/internal/batch"
	"pixel-constant-renderer/internal/config"
	"pixel-constant-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	sceneDir := flag.String("scenes", "", "Directory of scene YAML files (default: .)")
	outputDir := flag.String("output", "", "Output directory, relative to -scenes (default: renders)")
	ppu := flag.Float64("ppu", 0, "Pixels per unit override")
	angle := flag.Float64("angle", 0, "Camera angle override in degrees")
	distance := flag.Float64("distance", 0, "Camera distance override")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	testN := flag.Int("test", 0, "Process only the first N scenes")
	noPreview := flag.Bool("frame-only", false, "Only frame cameras, skip preview rendering")

	flag.Parse()

	angleSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "angle" {
			angleSet = true
		}
	})

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
		AngleSet:       angleSet,
		SceneDir:       *sceneDir,
		OutputDir:      *outputDir,
		PreviewSet:     *noPreview,
		Workers:        *workers,
	})
	preview := cfg.PreviewEnabled(true)

	scenes, err := findScenes(cfg.SceneDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(scenes) {
		scenes = scenes[:*testN]
	}

	if len(scenes) == 0 {
		fmt.Println("No scenes to frame.")
		os.Exit(0)
	}

	fmt.Printf("Pixel Constant Projection → WebP\n")
	fmt.Printf("Scenes: %d, Workers: %d\n", len(scenes), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		Settings:    cfg,
		OutputDir:   cfg.OutputDir,
		TexResolver: texture.NewCache(),
		Preview:     preview,
		WriteScenes: true,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		Progress:    2 * time.Second,
	}, scenes)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Framed: %d/%d\n", success, len(scenes))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, e := range errors[:min(len(errors), 20)] {
			fmt.Printf("  %s: %s\n", e.Scene, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// findScenes lists scene files directly inside dir, sorted by name.
func findScenes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenes %s: %w", dir, err)
	}
	var scenes []string
	for _, e := range entries {
		name := e.Name()
		ext := filepath.Ext(name)
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		scenes = append(scenes, filepath.Join(dir, name))
	}
	sort.Strings(scenes)
	return scenes, nil
}
