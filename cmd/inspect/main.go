package main

import (
	"fmt"
	"math"
	"os"

	"pixel-constant-renderer/internal/mathutil"
	"pixel-constant-renderer/internal/mesh"
)

// inspect prints vertex/triangle counts, the object-space bounding box and
// the facing distribution of a mesh file.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: inspect <mesh.obj|mesh.stl>")
		os.Exit(2)
	}
	path := os.Args[1]
	m, err := mesh.Load(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Mesh %q: verts=%d, uvs=%d, tris=%d\n", m.Name, len(m.Verts), len(m.UVs), len(m.Tris))

	bb, err := mesh.Bounds(m.Verts, mathutil.Mat4Identity())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n", bb.MinX, bb.MaxX, bb.MinY, bb.MaxY, bb.MinZ, bb.MaxZ)
	size := bb.Size()
	fmt.Printf("  Size: %.3f x %.3f x %.3f\n", size[0], size[1], size[2])

	// Surface area by dominant normal axis
	areaByDir := map[string]float64{}
	degenerate := 0
	for _, tri := range m.Tris {
		v0 := vec(m.Verts[tri.VI[0]])
		v1 := vec(m.Verts[tri.VI[1]])
		v2 := vec(m.Verts[tri.VI[2]])
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		area := 0.5 * n.Len()
		if area < 1e-12 {
			degenerate++
			continue
		}
		areaByDir[dominant(n)] += area
	}

	total := 0.0
	for _, a := range areaByDir {
		total += a
	}
	fmt.Printf("  Area: %.3f (degenerate tris: %d)\n", total, degenerate)
	for _, dir := range []string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"} {
		if a := areaByDir[dir]; a > 0 {
			fmt.Printf("    %s: %.3f (%.1f%%)\n", dir, a, 100*a/total)
		}
	}
}

func vec(v [3]float32) mathutil.Vec3 {
	return mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func dominant(n mathutil.Vec3) string {
	axis := 0
	for k := 1; k < 3; k++ {
		if math.Abs(n[k]) > math.Abs(n[axis]) {
			axis = k
		}
	}
	sign := "+"
	if n[axis] < 0 {
		sign = "-"
	}
	return sign + string("XYZ"[axis])
}
