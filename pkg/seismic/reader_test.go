// pkg/seismic/reader_test.go

package seismic

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"SeisVol/pkg/store"
)

// sampleAt encodes the ordinals of a sample into its value; exact in
// float32 for the volume sizes used here.
func sampleAt(i, j, k int) float32 {
	return float32(i*10000 + j*100 + k)
}

func fillVolume(size [3]int) []float32 {
	data := make([]float32, size[0]*size[1]*size[2])
	n := 0
	for i := 0; i < size[0]; i++ {
		for j := 0; j < size[1]; j++ {
			for k := 0; k < size[2]; k++ {
				data[n] = sampleAt(i, j, k)
				n++
			}
		}
	}
	return data
}

func newMemStore(t *testing.T, info *store.Info) *store.MemStore {
	t.Helper()
	s, err := store.NewMemStore(info, fillVolume(info.Size))
	require.NoError(t, err)
	return s
}

// scenarioInfo is the reference volume: shape (3,4,2), inline annotations
// [100,102,104], crossline annotations [10..13], sample axis [0,4], a
// unit-increment rectilinear grid from origin (1000, 2000).
func scenarioInfo() *store.Info {
	return &store.Info{
		Name:       "scenario",
		Size:       [3]int{3, 4, 2},
		AnnotStart: [2]int{100, 10},
		AnnotInc:   [2]int{2, 1},
		ZStart:     0,
		ZInc:       4,
		Corners:    [4][2]float64{{1000, 2000}, {1002, 2000}, {1000, 2003}, {1002, 2003}},
	}
}

func openScenarioReader(t *testing.T, conf *Config) *Reader {
	t.Helper()
	r, err := NewReader(newMemStore(t, scenarioInfo()), conf)
	require.NoError(t, err)
	return r
}

// multiBrickInfo spans several bricks on every axis.
func multiBrickInfo() *store.Info {
	return &store.Info{
		Name:       "multi",
		Size:       [3]int{70, 65, 130},
		AnnotStart: [2]int{1, 1},
		AnnotInc:   [2]int{1, 1},
		ZInc:       4,
		Corners:    [4][2]float64{{0, 0}, {69, 0}, {0, 64}, {69, 64}},
	}
}

// countingStore counts physical store reads.
type countingStore struct {
	store.VolumeStore
	slabs int64
	boxes int64
}

func (c *countingStore) ReadAlignedSlab(origin, shape [3]int) ([]float32, error) {
	atomic.AddInt64(&c.slabs, 1)
	return c.VolumeStore.ReadAlignedSlab(origin, shape)
}

func (c *countingStore) ReadBox(origin, shape [3]int) ([]float32, error) {
	atomic.AddInt64(&c.boxes, 1)
	return c.VolumeStore.ReadBox(origin, shape)
}

// flakyStore fails the first n slab reads.
type flakyStore struct {
	store.VolumeStore
	failures int64
}

func (f *flakyStore) ReadAlignedSlab(origin, shape [3]int) ([]float32, error) {
	if atomic.AddInt64(&f.failures, -1) >= 0 {
		return nil, errors.New("transient decompression failure")
	}
	return f.VolumeStore.ReadAlignedSlab(origin, shape)
}

func TestReadInlineByNumber(t *testing.T) {
	r := openScenarioReader(t, nil)
	defer r.Close()

	byOrd, err := r.ReadInline(1)
	require.NoError(t, err)
	byNo, err := r.ReadInlineNumber(102)
	require.NoError(t, err)
	require.Equal(t, byOrd, byNo)

	require.Equal(t, 4, byOrd.Rows)
	require.Equal(t, 2, byOrd.Cols)
	for j := 0; j < 4; j++ {
		for k := 0; k < 2; k++ {
			require.Equal(t, sampleAt(1, j, k), byOrd.At(j, k))
		}
	}
}

func TestCachedAndDirectPathsAgree(t *testing.T) {
	info := multiBrickInfo()
	s, err := store.NewMemStore(info, fillVolume(info.Size))
	require.NoError(t, err)
	r, err := NewReader(s, nil)
	require.NoError(t, err)
	defer r.Close()

	nIL, nXL, nZ := info.Size[0], info.Size[1], info.Size[2]

	for _, i := range []int{0, 1, 63, 64, 69} {
		il, err := r.ReadInline(i)
		require.NoError(t, err)
		box, err := r.ReadSubvolume(i, i+1, 0, nXL, 0, nZ)
		require.NoError(t, err)
		for j := 0; j < nXL; j++ {
			for k := 0; k < nZ; k++ {
				require.Equal(t, box.At(0, j, k), il.At(j, k))
				require.Equal(t, sampleAt(i, j, k), il.At(j, k))
			}
		}
	}

	xl, err := r.ReadCrossline(64)
	require.NoError(t, err)
	for i := 0; i < nIL; i++ {
		for k := 0; k < nZ; k++ {
			require.Equal(t, sampleAt(i, 64, k), xl.At(i, k))
		}
	}

	zs, err := r.ReadZSlice(129)
	require.NoError(t, err)
	for i := 0; i < nIL; i++ {
		for j := 0; j < nXL; j++ {
			require.Equal(t, sampleAt(i, j, 129), zs.At(i, j))
		}
	}

	trace, err := r.ReadTrace(65, 64)
	require.NoError(t, err)
	require.Len(t, trace, nZ)
	for k := 0; k < nZ; k++ {
		require.Equal(t, sampleAt(65, 64, k), trace[k])
	}
}

func TestReadInlineIdempotent(t *testing.T) {
	r := openScenarioReader(t, nil)
	defer r.Close()

	cold, err := r.ReadInline(2)
	require.NoError(t, err)
	warm, err := r.ReadInline(2)
	require.NoError(t, err)
	require.Equal(t, cold.Data, warm.Data)

	// results are independent copies, mutating one must not leak back
	warm.Data[0] = -1
	again, err := r.ReadInline(2)
	require.NoError(t, err)
	require.Equal(t, cold.Data, again.Data)
}

func TestBoundsPolicy(t *testing.T) {
	r := openScenarioReader(t, nil)
	defer r.Close()

	_, err := r.ReadInline(3)
	var oor *IndexOutOfRangeError
	require.ErrorAs(t, err, &oor)
	require.Equal(t, AxisInline, oor.Axis)
	require.Equal(t, 3, oor.Value)
	require.Equal(t, 3, oor.Stop)

	_, err = r.ReadCrossline(-1)
	require.Error(t, err)
	_, err = r.ReadZSlice(2)
	require.Error(t, err)
	_, err = r.ReadTrace(0, 4)
	require.ErrorAs(t, err, &oor)
	require.Equal(t, AxisCrossline, oor.Axis)

	// exclusive stops may equal the dimension, nothing beyond
	_, err = r.ReadSubvolume(0, 3, 0, 4, 0, 2)
	require.NoError(t, err)
	_, err = r.ReadSubvolume(0, 4, 0, 4, 0, 2)
	require.ErrorAs(t, err, &oor)
	require.Equal(t, AxisInline, oor.Axis)
	require.Equal(t, 4, oor.Value)
	_, err = r.ReadSubvolume(0, 3, 0, 4, 1, 0) // inverted range
	require.Error(t, err)

	// one-past-end annotation with includeStop resolves to the dimension
	stop, err := r.Axis(AxisInline).Ordinal(106, true)
	require.NoError(t, err)
	require.Equal(t, 3, stop)
}

func TestReadVolume(t *testing.T) {
	r := openScenarioReader(t, nil)
	defer r.Close()

	v, err := r.ReadVolume()
	require.NoError(t, err)
	require.Equal(t, [3]int{3, 4, 2}, [3]int{v.NI, v.NJ, v.NK})
	require.Equal(t, fillVolume(scenarioInfo().Size), v.Data)
}

func TestSubvolumeBypassesCache(t *testing.T) {
	cs := &countingStore{VolumeStore: newMemStore(t, scenarioInfo())}
	r, err := NewReader(cs, nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadSubvolume(1, 3, 0, 2, 0, 2)
	require.NoError(t, err)
	require.EqualValues(t, 1, atomic.LoadInt64(&cs.boxes))
	require.EqualValues(t, 0, atomic.LoadInt64(&cs.slabs))
}

func TestCacheCoalescing(t *testing.T) {
	cs := &countingStore{VolumeStore: newMemStore(t, scenarioInfo())}
	r, err := NewReader(cs, nil)
	require.NoError(t, err)
	defer r.Close()

	const n = 16
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			s, err := r.ReadInline(0)
			require.NoError(t, err)
			require.Equal(t, sampleAt(0, 0, 0), s.At(0, 0))
		}()
	}
	close(start)
	wg.Wait()
	require.EqualValues(t, 1, atomic.LoadInt64(&cs.slabs))
}

func TestCrossAxisReuse(t *testing.T) {
	cs := &countingStore{VolumeStore: newMemStore(t, scenarioInfo())}
	r, err := NewReader(cs, nil)
	require.NoError(t, err)
	defer r.Close()

	// the scenario volume fits in one brick: the slab loaded for the
	// inline query must serve every other axis without another read
	_, err = r.ReadInline(0)
	require.NoError(t, err)
	_, err = r.ReadCrossline(2)
	require.NoError(t, err)
	_, err = r.ReadZSlice(1)
	require.NoError(t, err)
	_, err = r.ReadTrace(1, 3)
	require.NoError(t, err)
	require.EqualValues(t, 1, atomic.LoadInt64(&cs.slabs))
}

func TestCacheEviction(t *testing.T) {
	info := multiBrickInfo()
	s, err := store.NewMemStore(info, fillVolume(info.Size))
	require.NoError(t, err)
	r, err := NewReader(s, &Config{CacheSize: 1}) // one brick
	require.NoError(t, err)
	defer r.Close()

	for _, pos := range [][2]int{{0, 0}, {69, 64}, {0, 64}, {69, 0}} {
		trace, err := r.ReadTrace(pos[0], pos[1])
		require.NoError(t, err)
		require.Equal(t, sampleAt(pos[0], pos[1], 17), trace[17])
	}
	entries, bytes := r.CacheStats()
	require.LessOrEqual(t, entries, int64(1))
	require.LessOrEqual(t, bytes, int64(1)<<20)
}

func TestFailedLoadIsRetryable(t *testing.T) {
	fs := &flakyStore{VolumeStore: newMemStore(t, scenarioInfo()), failures: 1}
	r, err := NewReader(fs, nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadInline(0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "transient decompression failure")

	entries, _ := r.CacheStats()
	require.Zero(t, entries) // no residue, no cached failure

	s, err := r.ReadInline(0)
	require.NoError(t, err)
	require.Equal(t, sampleAt(0, 3, 1), s.At(3, 1))
}

func TestClosedHandle(t *testing.T) {
	r := openScenarioReader(t, nil)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close()) // idempotent

	_, err := r.ReadInline(0)
	require.ErrorIs(t, err, ErrClosed)
	_, err = r.ReadSubvolume(0, 1, 0, 1, 0, 1)
	require.ErrorIs(t, err, ErrClosed)
	_, err = r.ReadTrace(0, 0)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, r.FillCache(1, nil), ErrClosed)

	// geometry stays usable: pure functions of open-time constants
	require.Equal(t, 1000.0, r.CDPX(0, 0))
	require.Equal(t, 2000.0, r.CDPY(0, 0))
	hdr, err := r.TraceHeader(0)
	require.NoError(t, err)
	require.Len(t, hdr, TraceHeaderSize)
}

func TestFillCache(t *testing.T) {
	info := multiBrickInfo()
	cs := &countingStore{}
	s, err := store.NewMemStore(info, fillVolume(info.Size))
	require.NoError(t, err)
	cs.VolumeStore = s
	r, err := NewReader(cs, &Config{CacheSize: 64})
	require.NoError(t, err)
	defer r.Close()

	var rows int64
	require.NoError(t, r.FillCache(3, func() { atomic.AddInt64(&rows, 1) }))
	require.EqualValues(t, 2, rows) // 70 inlines = 2 brick rows

	entries, _ := r.CacheStats()
	require.EqualValues(t, 2*2*3, entries) // whole brick grid resident

	// a warm cache serves reads without touching the store again
	before := atomic.LoadInt64(&cs.slabs)
	_, err = r.ReadCrossline(10)
	require.NoError(t, err)
	require.Equal(t, before, atomic.LoadInt64(&cs.slabs))
}

func TestCDPThroughReader(t *testing.T) {
	r := openScenarioReader(t, nil)
	defer r.Close()

	require.Equal(t, 1000.0, r.CDPX(0, 0))
	require.Equal(t, 2000.0, r.CDPY(0, 0))
	require.Equal(t, 12, r.TraceCount())
	require.Equal(t, [3]int{3, 4, 2}, r.Dimensions())
}
