// pkg/seismic/slice.go

package seismic

// Slice is a dense 2D plane of samples, row-major. An inline slice has
// shape (crosslines, samples), a crossline slice (inlines, samples) and a
// zslice (inlines, crosslines).
type Slice struct {
	Rows, Cols int
	Data       []float32
}

func newSlice(rows, cols int) *Slice {
	return &Slice{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

func (s *Slice) At(r, c int) float32 {
	return s.Data[r*s.Cols+c]
}

// Cube is a dense 3D box of samples, il-major
// (index = (i*NJ+j)*NK + k).
type Cube struct {
	NI, NJ, NK int
	Data       []float32
}

func (c *Cube) At(i, j, k int) float32 {
	return c.Data[(i*c.NJ+j)*c.NK+k]
}
