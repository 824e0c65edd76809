// pkg/seismic/axis_test.go

package seismic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAxisValues(t *testing.T) {
	a := Axis{ID: AxisInline, Start: 100, Increment: 2, Count: 3}
	require.Equal(t, []float64{100, 102, 104}, a.Values())
}

func TestAxisOrdinalRoundTrip(t *testing.T) {
	axes := []Axis{
		{ID: AxisInline, Start: 100, Increment: 2, Count: 3},
		{ID: AxisCrossline, Start: 10, Increment: 1, Count: 4},
		{ID: AxisSample, Start: 0, Increment: 4, Count: 2},
	}
	for _, a := range axes {
		for i, v := range a.Values() {
			ord, err := a.Ordinal(v, false)
			require.NoError(t, err)
			require.Equal(t, i, ord)
		}
	}
}

func TestAxisOrdinalNotFound(t *testing.T) {
	a := Axis{ID: AxisInline, Start: 100, Increment: 2, Count: 3}

	_, err := a.Ordinal(101, false) // between members
	var cnf *CoordinateNotFoundError
	require.ErrorAs(t, err, &cnf)
	require.Equal(t, AxisInline, cnf.Axis)
	require.Equal(t, 101.0, cnf.Coordinate)

	_, err = a.Ordinal(98, false) // before start
	require.Error(t, err)

	_, err = a.Ordinal(106, false) // one past end without includeStop
	require.Error(t, err)
}

func TestAxisOrdinalIncludeStop(t *testing.T) {
	a := Axis{ID: AxisCrossline, Start: 10, Increment: 1, Count: 4}

	ord, err := a.Ordinal(14, true)
	require.NoError(t, err)
	require.Equal(t, 4, ord) // exclusive end marker

	_, err = a.Ordinal(15, true) // two past end is still an error
	require.Error(t, err)
}
