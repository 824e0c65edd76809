// pkg/seismic/reader.go

package seismic

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"SeisVol/pkg/store"
	"SeisVol/pkg/utils"
)

var logger = utils.GetLogger("seisvol")

// TraceHeaderSize is the fixed SEG-Y trace header length.
const TraceHeaderSize = 240

// Reader is the public read surface over one opened volume. All open-time
// state is immutable; the brick cache is the only shared mutable resource
// and is owned by this reader, so concurrent reads need no external
// coordination.
type Reader struct {
	store  store.VolumeStore
	info   *store.Info
	axes   [3]Axis
	geom   Geometry
	cache  *brickCache
	proj   *projector
	closed int32
}

// Open opens a volume container file with the given config (nil for
// defaults).
func Open(path string, conf *Config) (*Reader, error) {
	st, err := store.OpenFile(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(st, conf)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return r, nil
}

// NewReader wraps an already opened store.
func NewReader(st store.VolumeStore, conf *Config) (*Reader, error) {
	if conf == nil {
		conf = DefaultConfig()
	}
	info := st.Info()
	cache := newBrickCache(conf.CacheSize)
	r := &Reader{
		store: st,
		info:  info,
		axes: [3]Axis{
			{ID: AxisInline, Start: float64(info.AnnotStart[0]), Increment: float64(info.AnnotInc[0]), Count: info.Size[0]},
			{ID: AxisCrossline, Start: float64(info.AnnotStart[1]), Increment: float64(info.AnnotInc[1]), Count: info.Size[1]},
			{ID: AxisSample, Start: info.ZStart, Increment: info.ZInc, Count: info.Size[2]},
		},
		geom:  newGeometry(info.Corners, info.Size),
		cache: cache,
		proj:  newProjector(st, cache),
	}
	logger.Debugf("opened volume %q: size %v, cache capacity %d bricks", info.Name, info.Size, cache.capacity)
	return r, nil
}

// Close drains the cache and closes the store. It is safe to call more
// than once; reads issued after the first Close fail with ErrClosed.
// CDPX, CDPY and TraceHeader stay usable, they are pure functions of
// open-time constants and never touch the store.
func (r *Reader) Close() error {
	if !atomic.CompareAndSwapInt32(&r.closed, 0, 1) {
		return nil
	}
	r.cache.drop()
	return r.store.Close()
}

func (r *Reader) checkOpen() error {
	if atomic.LoadInt32(&r.closed) != 0 {
		return ErrClosed
	}
	return nil
}

// Dimensions returns (inlines, crosslines, samples).
func (r *Reader) Dimensions() [3]int { return r.info.Size }

// Axis returns the annotation axis for the given id.
func (r *Reader) Axis(id AxisID) Axis { return r.axes[id] }

// TraceCount is the number of (inline, crossline) positions.
func (r *Reader) TraceCount() int { return r.info.Size[0] * r.info.Size[1] }

// ReadInline returns the il-th inline plane, shape (crosslines, samples).
func (r *Reader) ReadInline(il int) (*Slice, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	return r.proj.readPlane(AxisInline, il)
}

// ReadInlineNumber reads an inline by its annotation number.
func (r *Reader) ReadInlineNumber(no int) (*Slice, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	il, err := r.axes[AxisInline].Ordinal(float64(no), false)
	if err != nil {
		return nil, err
	}
	return r.proj.readPlane(AxisInline, il)
}

// ReadCrossline returns the xl-th crossline plane, shape (inlines, samples).
func (r *Reader) ReadCrossline(xl int) (*Slice, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	return r.proj.readPlane(AxisCrossline, xl)
}

// ReadCrosslineNumber reads a crossline by its annotation number.
func (r *Reader) ReadCrosslineNumber(no int) (*Slice, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	xl, err := r.axes[AxisCrossline].Ordinal(float64(no), false)
	if err != nil {
		return nil, err
	}
	return r.proj.readPlane(AxisCrossline, xl)
}

// ReadZSlice returns the z-th time/depth slice, shape (inlines, crosslines).
func (r *Reader) ReadZSlice(z int) (*Slice, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	return r.proj.readPlane(AxisSample, z)
}

// ReadZSliceCoord reads a zslice by its sample time/depth annotation.
func (r *Reader) ReadZSliceCoord(coord float64) (*Slice, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	z, err := r.axes[AxisSample].Ordinal(coord, false)
	if err != nil {
		return nil, err
	}
	return r.proj.readPlane(AxisSample, z)
}

// ReadTrace returns the single trace at (il, xl) ordinals.
func (r *Reader) ReadTrace(il, xl int) ([]float32, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	return r.proj.readTrace(il, xl)
}

// ReadTraceNumber reads a trace by its annotation numbers.
func (r *Reader) ReadTraceNumber(ilNo, xlNo int) ([]float32, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	il, err := r.axes[AxisInline].Ordinal(float64(ilNo), false)
	if err != nil {
		return nil, err
	}
	xl, err := r.axes[AxisCrossline].Ordinal(float64(xlNo), false)
	if err != nil {
		return nil, err
	}
	return r.proj.readTrace(il, xl)
}

// ReadTraceIndex reads a trace by its flat ordinal, il-major
// (index = il*crosslines + xl).
func (r *Reader) ReadTraceIndex(index int) ([]float32, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	il, xl, err := r.splitTraceIndex(index)
	if err != nil {
		return nil, err
	}
	return r.proj.readTrace(il, xl)
}

func (r *Reader) splitTraceIndex(index int) (int, int, error) {
	nXL := r.info.Size[1]
	il, xl := index/nXL, index%nXL
	if index < 0 || il >= r.info.Size[0] {
		return 0, 0, &IndexOutOfRangeError{Axis: AxisInline, Value: il, Stop: r.info.Size[0]}
	}
	return il, xl, nil
}

// ReadSubvolume reads the half-open window [minIL,maxIL) x [minXL,maxXL) x
// [minZ,maxZ) in one direct ranged store read, bypassing the brick cache.
func (r *Reader) ReadSubvolume(minIL, maxIL, minXL, maxXL, minZ, maxZ int) (*Cube, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	return r.proj.readBox([3]int{minIL, minXL, minZ}, [3]int{maxIL, maxXL, maxZ})
}

// ReadVolume reads the whole volume.
func (r *Reader) ReadVolume() (*Cube, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	return r.proj.readBox([3]int{}, r.info.Size)
}

// CDPX returns the easting of the CDP at (il, xl) ordinals.
func (r *Reader) CDPX(il, xl int) float64 { return r.geom.CDPX(il, xl) }

// CDPY returns the northing of the CDP at (il, xl) ordinals.
func (r *Reader) CDPY(il, xl int) float64 { return r.geom.CDPY(il, xl) }

// TraceHeader synthesizes the 240-byte SEG-Y trace header for the trace at
// the given flat ordinal. Only the fields derivable from geometry and
// indexing are populated, all big-endian:
//
//	bytes  70..72  int16  coordinate scalar, -100 (UTM in cm)
//	bytes 114..116 uint16 samples per trace
//	bytes 116..118 uint16 sample interval in microseconds
//	bytes 180..184 int32  CDP X, scaled by 100
//	bytes 184..188 int32  CDP Y, scaled by 100
//	bytes 188..192 int32  inline annotation number
//	bytes 192..196 int32  crossline annotation number
//
// Every other byte is zero. The projection is lossy; the populated set
// must not grow silently.
func (r *Reader) TraceHeader(index int) ([]byte, error) {
	il, xl, err := r.splitTraceIndex(index)
	if err != nil {
		return nil, err
	}
	cdpX := int32(math.Round(100 * r.geom.CDPX(il, xl)))
	cdpY := int32(math.Round(100 * r.geom.CDPY(il, xl)))
	inline := int32(r.info.AnnotStart[0] + il*r.info.AnnotInc[0])
	crossline := int32(r.info.AnnotStart[1] + xl*r.info.AnnotInc[1])

	scalar := int16(-100) // UTM coordinates supplied in cm

	hdr := make([]byte, TraceHeaderSize)
	binary.BigEndian.PutUint16(hdr[70:], uint16(scalar))
	binary.BigEndian.PutUint16(hdr[114:], uint16(r.info.Size[2]))
	binary.BigEndian.PutUint16(hdr[116:], uint16(r.info.ZInc*1000))
	binary.BigEndian.PutUint32(hdr[180:], uint32(cdpX))
	binary.BigEndian.PutUint32(hdr[184:], uint32(cdpY))
	binary.BigEndian.PutUint32(hdr[188:], uint32(inline))
	binary.BigEndian.PutUint32(hdr[192:], uint32(crossline))
	return hdr, nil
}

// CacheStats returns the resident brick count and its memory footprint.
func (r *Reader) CacheStats() (int64, int64) {
	return r.cache.stats()
}

// FillCache warms the brick cache one inline brick row at a time with the
// given number of workers. onRow, if not nil, is called after each row.
func (r *Reader) FillCache(concurrent int, onRow func()) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	nb := r.info.Bricks()
	total := nb[0] * nb[1] * nb[2]
	if capacity := r.cache.capacity; capacity < total {
		logger.Warnf("cache holds %d bricks but the volume has %d, warmup will evict", capacity, total)
	}
	if concurrent < 1 {
		concurrent = 1
	}
	todo := make(chan int, nb[0])
	for bi := 0; bi < nb[0]; bi++ {
		todo <- bi
	}
	close(todo)
	var failed int32
	var wg sync.WaitGroup
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for bi := range todo {
				if err := r.fillRow(bi); err != nil {
					logger.Errorf("warmup inline brick row %d: %s", bi, err)
					atomic.AddInt32(&failed, 1)
				}
				if onRow != nil {
					onRow()
				}
			}
		}()
	}
	wg.Wait()
	if n := atomic.LoadInt32(&failed); n > 0 {
		return errors.Errorf("warmup failed for %d of %d inline brick rows", n, nb[0])
	}
	return nil
}

func (r *Reader) fillRow(bi int) error {
	fixed := [3]bool{true, false, false}
	nb := r.info.Bricks()
	for bj := 0; bj < nb[1]; bj++ {
		for bk := 0; bk < nb[2]; bk++ {
			if _, err := r.proj.fetch(BrickCoordinate{bi, bj, bk}, fixed); err != nil {
				return err
			}
		}
	}
	return nil
}
