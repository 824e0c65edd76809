// pkg/seismic/errors.go

package seismic

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrClosed is returned by any read issued after Close.
var ErrClosed = errors.New("volume reader is closed")

// CoordinateNotFoundError reports an annotation coordinate that is not an
// exact member of its axis. There is no fuzzy matching.
type CoordinateNotFoundError struct {
	Axis       AxisID
	Coordinate float64
}

func (e *CoordinateNotFoundError) Error() string {
	return fmt.Sprintf("coordinate %g not in %s axis", e.Coordinate, e.Axis)
}

// IndexOutOfRangeError reports an ordinal or range bound outside the valid
// range [0, Stop) of its axis.
type IndexOutOfRangeError struct {
	Axis  AxisID
	Value int
	Stop  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s ordinal %d out of range [0,%d)", e.Axis, e.Value, e.Stop)
}
