// pkg/seismic/geometry.go

package seismic

// Geometry maps (inline, crossline) ordinals to cartesian CDP coordinates.
// It is a rectilinear approximation: one (easting, northing) increment per
// axis, finite-differenced between the corner points. Shear beyond these
// two increments is not representable.
type Geometry struct {
	origin [2]float64
	incIL  [2]float64
	incXL  [2]float64
}

func newGeometry(corners [4][2]float64, size [3]int) Geometry {
	g := Geometry{origin: corners[0]}
	if size[0] > 1 {
		n := float64(size[0] - 1)
		g.incIL = [2]float64{(corners[1][0] - corners[0][0]) / n, (corners[1][1] - corners[0][1]) / n}
	}
	if size[1] > 1 {
		n := float64(size[1] - 1)
		g.incXL = [2]float64{(corners[2][0] - corners[0][0]) / n, (corners[2][1] - corners[0][1]) / n}
	}
	return g
}

// CDPX returns the easting of the common depth point at (il, xl) ordinals.
func (g Geometry) CDPX(il, xl int) float64 {
	return g.origin[0] + float64(il)*g.incIL[0] + float64(xl)*g.incXL[0]
}

// CDPY returns the northing of the common depth point at (il, xl) ordinals.
func (g Geometry) CDPY(il, xl int) float64 {
	return g.origin[1] + float64(il)*g.incIL[1] + float64(xl)*g.incXL[1]
}
