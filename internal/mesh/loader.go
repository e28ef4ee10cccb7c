package mesh

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/hschendel/stl"

	"pixel-constant-renderer/internal/framing"
	"pixel-constant-renderer/internal/mathutil"
)

// ErrNoVertices is returned when a bounding box is requested for an empty mesh.
var ErrNoVertices = errors.New("mesh: no vertices")

// Load reads a mesh file, dispatching on its extension.
func Load(path string) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".stl":
		return LoadSTL(path)
	default:
		return nil, fmt.Errorf("mesh: unsupported format: %s", path)
	}
}

// LoadSTL reads an ASCII or binary STL file. Vertices are not welded;
// every facet contributes three of its own.
func LoadSTL(path string) (*Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: read %s: %w", path, err)
	}

	m := &Mesh{
		Name:  solid.Name,
		Verts: make([][3]float32, 0, len(solid.Triangles)*3),
		Tris:  make([]Triangle, 0, len(solid.Triangles)),
	}
	for _, t := range solid.Triangles {
		base := len(m.Verts)
		for _, v := range t.Vertices {
			m.Verts = append(m.Verts, [3]float32{v[0], v[1], v[2]})
		}
		m.Tris = append(m.Tris, Triangle{
			VI: [3]int{base, base + 1, base + 2},
			TI: [3]int{-1, -1, -1},
		})
	}
	return m, nil
}

// WorldVerts transforms every vertex by the world matrix.
func WorldVerts(verts [][3]float32, world mathutil.Mat4) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(verts))
	for i, v := range verts {
		out[i] = world.MulPoint(mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])})
	}
	return out
}

// Bounds returns the world-space bounding box of verts under world.
func Bounds(verts [][3]float32, world mathutil.Mat4) (framing.BoundingBox, error) {
	if len(verts) == 0 {
		return framing.BoundingBox{}, ErrNoVertices
	}

	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range verts {
		tv := world.MulPoint(mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])})
		lo = lo.Min(tv)
		hi = hi.Max(tv)
	}

	return framing.BoundingBox{
		MinX: lo[0], MaxX: hi[0],
		MinY: lo[1], MaxY: hi[1],
		MinZ: lo[2], MaxZ: hi[2],
	}, nil
}
