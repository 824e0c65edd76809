// pkg/seismic/projector.go

package seismic

import (
	"github.com/pkg/errors"

	"SeisVol/pkg/store"
	"SeisVol/pkg/utils"
)

// projector turns logical per-axis queries into aligned brick reads and
// extracts the requested sub-plane from the cached bricks. It keeps no
// state across requests beyond the shared cache.
//
// Every query shape is one primitive: a slab that is BrickSize thick along
// each fixed axis and spans the full brick-padded extent of each free axis.
// A plane read fixes one axis, a trace read fixes two. One wide slab read
// amortizes a single decompression pass across up to BrickSize planes.
type projector struct {
	store store.VolumeStore
	cache *brickCache
	size  [3]int
	nb    [3]int // bricks per axis
}

func newProjector(st store.VolumeStore, cache *brickCache) *projector {
	info := st.Info()
	return &projector{store: st, cache: cache, size: info.Size, nb: info.Bricks()}
}

func (p *projector) checkOrdinal(axis AxisID, ord int) error {
	if ord < 0 || ord >= p.size[axis] {
		return &IndexOutOfRangeError{Axis: axis, Value: ord, Stop: p.size[axis]}
	}
	return nil
}

func (p *projector) checkRange(axis AxisID, start, stop int) error {
	if start < 0 || start > p.size[axis] {
		return &IndexOutOfRangeError{Axis: axis, Value: start, Stop: p.size[axis]}
	}
	if stop < start || stop > p.size[axis] {
		return &IndexOutOfRangeError{Axis: axis, Value: stop, Stop: p.size[axis]}
	}
	return nil
}

// planeAxes returns the two free axes of a plane fixed on the given axis,
// in row/column order of the result.
func planeAxes(axis AxisID) (int, int) {
	switch axis {
	case AxisInline:
		return 1, 2
	case AxisCrossline:
		return 0, 2
	default:
		return 0, 1
	}
}

// readPlane extracts the ord-th plane perpendicular to the given axis. The
// result is an independent copy; cached bricks are never exposed.
func (p *projector) readPlane(axis AxisID, ord int) (*Slice, error) {
	if err := p.checkOrdinal(axis, ord); err != nil {
		return nil, err
	}
	u, w := planeAxes(axis)
	out := newSlice(p.size[u], p.size[w])
	var fixed [3]bool
	fixed[axis] = true
	var bc [3]int
	bc[axis] = ord / BrickSize
	lv := ord % BrickSize
	for bu := 0; bu < p.nb[u]; bu++ {
		for bw := 0; bw < p.nb[w]; bw++ {
			bc[u], bc[w] = bu, bw
			brick, err := p.fetch(BrickCoordinate{bc[0], bc[1], bc[2]}, fixed)
			if err != nil {
				return nil, err
			}
			var l [3]int
			l[axis] = lv
			for uu := bu * BrickSize; uu < utils.Min((bu+1)*BrickSize, p.size[u]); uu++ {
				l[u] = uu % BrickSize
				row := out.Data[uu*p.size[w]:]
				for ww := bw * BrickSize; ww < utils.Min((bw+1)*BrickSize, p.size[w]); ww++ {
					l[w] = ww % BrickSize
					row[ww] = brick.at(l[0], l[1], l[2])
				}
			}
		}
	}
	return out, nil
}

// readTrace extracts the single trace at (il, xl), loading only the brick
// column spanning the full sample depth of that position.
func (p *projector) readTrace(il, xl int) ([]float32, error) {
	if err := p.checkOrdinal(AxisInline, il); err != nil {
		return nil, err
	}
	if err := p.checkOrdinal(AxisCrossline, xl); err != nil {
		return nil, err
	}
	out := make([]float32, p.size[2])
	fixed := [3]bool{true, true, false}
	li, lj := il%BrickSize, xl%BrickSize
	for bk := 0; bk < p.nb[2]; bk++ {
		brick, err := p.fetch(BrickCoordinate{il / BrickSize, xl / BrickSize, bk}, fixed)
		if err != nil {
			return nil, err
		}
		base := (li*BrickSize + lj) * BrickSize
		n := utils.Min(BrickSize, p.size[2]-bk*BrickSize)
		copy(out[bk*BrickSize:], brick.data[base:base+n])
	}
	return out, nil
}

// readBox bypasses the brick cache: arbitrary non-aligned windows gain
// nothing from brick reuse and the store decompresses ranges efficiently.
func (p *projector) readBox(start, stop [3]int) (*Cube, error) {
	for a := AxisInline; a <= AxisSample; a++ {
		if err := p.checkRange(a, start[a], stop[a]); err != nil {
			return nil, err
		}
	}
	shape := [3]int{stop[0] - start[0], stop[1] - start[1], stop[2] - start[2]}
	data, err := p.store.ReadBox(start, shape)
	if err != nil {
		return nil, errors.Wrapf(err, "read box %v..%v", start, stop)
	}
	return &Cube{NI: shape[0], NJ: shape[1], NK: shape[2], Data: data}, nil
}

// fetch returns the brick through the cache, loading its whole slab on a
// miss. The slab is one wide aligned read; all of its bricks are inserted
// so they are directly reusable by queries on other axes.
func (p *projector) fetch(bc BrickCoordinate, fixed [3]bool) (*Brick, error) {
	return p.cache.getOrLoad(bc, func() (map[BrickCoordinate]*Brick, error) {
		return p.loadSlab(bc, fixed)
	})
}

func (p *projector) loadSlab(bc BrickCoordinate, fixed [3]bool) (map[BrickCoordinate]*Brick, error) {
	idx := [3]int{bc.I, bc.J, bc.K}
	var origin, shape [3]int
	for a := 0; a < 3; a++ {
		if fixed[a] {
			origin[a] = idx[a] * BrickSize
			shape[a] = BrickSize
		} else {
			shape[a] = p.nb[a] * BrickSize
		}
	}
	data, err := p.store.ReadAlignedSlab(origin, shape)
	if err != nil {
		return nil, errors.Wrapf(err, "load slab at %v", origin)
	}
	nu, nv, nw := shape[0]/BrickSize, shape[1]/BrickSize, shape[2]/BrickSize
	bricks := make(map[BrickCoordinate]*Brick, nu*nv*nw)
	for i := 0; i < nu; i++ {
		for j := 0; j < nv; j++ {
			for k := 0; k < nw; k++ {
				b := &Brick{data: make([]float32, store.BrickSamples)}
				for li := 0; li < BrickSize; li++ {
					for lj := 0; lj < BrickSize; lj++ {
						src := ((i*BrickSize+li)*shape[1]+j*BrickSize+lj)*shape[2] + k*BrickSize
						dst := (li*BrickSize + lj) * BrickSize
						copy(b.data[dst:dst+BrickSize], data[src:src+BrickSize])
					}
				}
				key := BrickCoordinate{origin[0]/BrickSize + i, origin[1]/BrickSize + j, origin[2]/BrickSize + k}
				bricks[key] = b
			}
		}
	}
	return bricks, nil
}
