package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadOBJ reads a Wavefront OBJ file. Only positions (v), texture
// coordinates (vt) and faces (f) are used; polygons are fan-triangulated.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: read %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("mesh: parse %s: %w", path, err)
	}
	return m, nil
}

// ParseOBJ parses OBJ data from r.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "o":
			if m.Name == "" && len(fields) > 1 {
				m.Name = fields[1]
			}
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			m.Verts = append(m.Verts, [3]float32{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			m.UVs = append(m.UVs, [2]float32{v[0], v[1]})
		case "f":
			if err := m.addFace(fields[1:]); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

func (m *Mesh) addFace(corners []string) error {
	if len(corners) < 3 {
		return fmt.Errorf("face with %d corners", len(corners))
	}

	vi := make([]int, len(corners))
	ti := make([]int, len(corners))
	for i, c := range corners {
		parts := strings.Split(c, "/")
		v, err := resolveIndex(parts[0], len(m.Verts))
		if err != nil {
			return err
		}
		vi[i] = v
		ti[i] = -1
		if len(parts) > 1 && parts[1] != "" {
			t, err := resolveIndex(parts[1], len(m.UVs))
			if err != nil {
				return err
			}
			ti[i] = t
		}
	}

	// Fan: 0-1-2, 0-2-3, ...
	for k := 1; k+1 < len(vi); k++ {
		m.Tris = append(m.Tris, Triangle{
			VI: [3]int{vi[0], vi[k], vi[k+1]},
			TI: [3]int{ti[0], ti[k], ti[k+1]},
		})
	}
	return nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index to 0-based.
func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	var idx int
	switch {
	case n > 0:
		idx = n - 1
	case n < 0:
		idx = count + n
	default:
		return 0, fmt.Errorf("zero index")
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("index %d out of range (%d defined)", n, count)
	}
	return idx, nil
}
