// pkg/store/store.go

package store

import (
	"SeisVol/pkg/utils"
)

var logger = utils.GetLogger("seisvol")

// BrickSize is the per-axis extent of the cubic storage brick, dictated by
// the container format.
const BrickSize = 64

// BrickSamples is the number of samples in one brick.
const BrickSamples = BrickSize * BrickSize * BrickSize

// Info carries the open-time constants of a volume: its dimensions,
// annotation axes and corner-point geometry, plus container metadata.
type Info struct {
	Name        string
	UUID        string
	Compression string

	Size       [3]int // inlines, crosslines, samples
	AnnotStart [2]int // first inline/crossline annotation number
	AnnotInc   [2]int // annotation steps
	ZStart     float64
	ZInc       float64

	// Corners are the (easting, northing) pairs of the bounding
	// quadrilateral: first il/first xl, last il/first xl,
	// first il/last xl, last il/last xl.
	Corners [4][2]float64
}

// Bricks returns the per-axis brick counts.
func (i *Info) Bricks() [3]int {
	var nb [3]int
	for a := 0; a < 3; a++ {
		nb[a] = (i.Size[a] + BrickSize - 1) / BrickSize
	}
	return nb
}

// VolumeStore is a block-oriented container of volumetric samples. The
// container format, its codec and its block index stay behind this
// interface.
type VolumeStore interface {
	// Info returns the open-time constants; the result must not be mutated.
	Info() *Info

	// ReadBox reads an arbitrary in-bounds box, il-major
	// (index = (i*shape[1]+j)*shape[2]+k).
	ReadBox(origin, shape [3]int) ([]float32, error)

	// ReadAlignedSlab reads a brick-aligned box. Origin and shape must be
	// multiples of BrickSize; the box may extend past the volume, the
	// excess is zero-padded.
	ReadAlignedSlab(origin, shape [3]int) ([]float32, error)

	Close() error
}
