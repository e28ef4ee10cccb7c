package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one framed scene in the output manifest.
type ManifestEntry struct {
	Scene       string     `json:"scene"`
	Object      string     `json:"object"`
	ResolutionX int        `json:"resolution_x"`
	ResolutionY int        `json:"resolution_y"`
	OrthoScale  float64    `json:"ortho_scale"`
	Location    [3]float64 `json:"camera_location"`
	Rotation    [3]float64 `json:"camera_rotation_deg"`
	Image       string     `json:"image,omitempty"`
}

// WriteManifest writes the successful results as JSON. Paths are made
// relative to the manifest's directory when possible.
func WriteManifest(path string, results []Result) error {
	dir := filepath.Dir(path)
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Scene:       relTo(dir, r.Scene),
			Object:      r.Object,
			ResolutionX: r.ResolutionX,
			ResolutionY: r.ResolutionY,
			OrthoScale:  r.OrthoScale,
			Location:    r.Location,
			Rotation:    r.Rotation,
			Image:       relTo(dir, r.Image),
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func relTo(dir, p string) string {
	if p == "" {
		return ""
	}
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}
