// pkg/seismic/axis.go

package seismic

import "math"

type AxisID int

const (
	AxisInline AxisID = iota
	AxisCrossline
	AxisSample
)

func (a AxisID) String() string {
	switch a {
	case AxisInline:
		return "inline"
	case AxisCrossline:
		return "crossline"
	case AxisSample:
		return "sample"
	}
	return "unknown"
}

// Axis is an evenly spaced, strictly monotonic sequence of annotation
// coordinates along one dimension of the volume.
type Axis struct {
	ID        AxisID
	Start     float64
	Increment float64
	Count     int
}

// Values materializes the full annotation sequence.
func (a Axis) Values() []float64 {
	vs := make([]float64, a.Count)
	for i := range vs {
		vs[i] = a.Start + float64(i)*a.Increment
	}
	return vs
}

// Ordinal maps an annotation coordinate to its 0-based position. The match
// is exact; annotations are integral domain labels, not measurements. With
// includeStop set, the one-past-end coordinate maps to Count, usable as an
// exclusive range bound.
func (a Axis) Ordinal(coord float64, includeStop bool) (int, error) {
	if a.Increment != 0 {
		ord := int(math.Round((coord - a.Start) / a.Increment))
		if a.Start+float64(ord)*a.Increment == coord {
			if ord >= 0 && ord < a.Count {
				return ord, nil
			}
			if includeStop && ord == a.Count {
				return ord, nil
			}
		}
	}
	return 0, &CoordinateNotFoundError{Axis: a.ID, Coordinate: coord}
}
