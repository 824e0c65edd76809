// pkg/seismic/brick.go

package seismic

import (
	"fmt"

	"SeisVol/pkg/store"
)

// BrickSize is the per-axis extent of the cubic storage brick.
const BrickSize = store.BrickSize

const brickBytes = store.BrickSamples * 4

// BrickCoordinate addresses one brick in the volume's brick grid,
// floor(ordinal / BrickSize) per axis.
type BrickCoordinate struct {
	I, J, K int
}

func (c BrickCoordinate) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.I, c.J, c.K)
}

// Brick is one decompressed storage brick, il-major within the brick. It is
// immutable once loaded and owned by the cache; consumers copy out of it.
type Brick struct {
	data []float32
}

func (b *Brick) at(li, lj, lk int) float32 {
	return b.data[(li*BrickSize+lj)*BrickSize+lk]
}
