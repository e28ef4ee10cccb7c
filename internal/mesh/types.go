package mesh

// Triangle holds index triples into the vertex and texcoord arrays.
// TI entries are -1 when the face has no texture coordinates.
type Triangle struct {
	VI [3]int
	TI [3]int
}

// Mesh holds object-space geometry loaded from an OBJ or STL file.
type Mesh struct {
	Name  string
	Verts [][3]float32
	UVs   [][2]float32
	Tris  []Triangle
}
