// pkg/store/store_test.go

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testInfo(size [3]int, compression string) *Info {
	return &Info{
		Name:        "test",
		UUID:        "00000000-0000-0000-0000-000000000000",
		Compression: compression,
		Size:        size,
		AnnotStart:  [2]int{100, 10},
		AnnotInc:    [2]int{2, 1},
		ZStart:      0,
		ZInc:        4,
		Corners:     [4][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	}
}

func testSamples(size [3]int) []float32 {
	data := make([]float32, size[0]*size[1]*size[2])
	for i := range data {
		data[i] = float32(i)
	}
	return data
}

func writeContainer(t *testing.T, path string, info *Info, data []float32) {
	t.Helper()
	mem, err := NewMemStore(info, data)
	require.NoError(t, err)
	w, err := CreateFile(path, info)
	require.NoError(t, err)
	nb := info.Bricks()
	for bi := 0; bi < nb[0]; bi++ {
		for bj := 0; bj < nb[1]; bj++ {
			for bk := 0; bk < nb[2]; bk++ {
				require.NoError(t, w.WriteBrick(bi, bj, bk, mem.Brick(bi, bj, bk)))
			}
		}
	}
	require.NoError(t, w.Finish())
}

func TestMemStoreReadBox(t *testing.T) {
	size := [3]int{3, 4, 2}
	data := testSamples(size)
	s, err := NewMemStore(testInfo(size, "none"), data)
	require.NoError(t, err)

	whole, err := s.ReadBox([3]int{}, size)
	require.NoError(t, err)
	require.Equal(t, data, whole)

	one, err := s.ReadBox([3]int{1, 2, 1}, [3]int{1, 1, 1})
	require.NoError(t, err)
	require.Equal(t, data[(1*4+2)*2+1], one[0])

	_, err = s.ReadBox([3]int{2, 0, 0}, [3]int{2, 4, 2})
	require.Error(t, err)
}

func TestMemStoreAlignedSlab(t *testing.T) {
	size := [3]int{3, 4, 2}
	s, err := NewMemStore(testInfo(size, "none"), testSamples(size))
	require.NoError(t, err)

	slab, err := s.ReadAlignedSlab([3]int{0, 0, 0}, [3]int{BrickSize, BrickSize, BrickSize})
	require.NoError(t, err)
	require.Len(t, slab, BrickSamples)
	// in-volume samples placed at their brick-relative positions
	require.Equal(t, float32((1*4+2)*2+1), slab[(1*BrickSize+2)*BrickSize+1])
	// store-supplied padding past the volume edge
	require.Zero(t, slab[(2*BrickSize+5)*BrickSize+0])

	_, err = s.ReadAlignedSlab([3]int{1, 0, 0}, [3]int{BrickSize, BrickSize, BrickSize})
	require.Error(t, err) // unaligned origin
}

func TestFileStoreRoundTrip(t *testing.T) {
	for _, algr := range []string{"none", "lz4", "zstd"} {
		t.Run(algr, func(t *testing.T) {
			size := [3]int{70, 65, 130}
			data := testSamples(size)
			path := filepath.Join(t.TempDir(), "vol.svc")
			writeContainer(t, path, testInfo(size, algr), data)

			s, err := OpenFile(path)
			require.NoError(t, err)
			defer s.Close()

			require.Equal(t, size, s.Info().Size)
			require.Equal(t, algr, s.Info().Compression)

			whole, err := s.ReadBox([3]int{}, size)
			require.NoError(t, err)
			require.Equal(t, data, whole)

			// a window crossing brick boundaries on every axis
			box, err := s.ReadBox([3]int{60, 60, 120}, [3]int{10, 5, 10})
			require.NoError(t, err)
			mem, _ := NewMemStore(testInfo(size, algr), data)
			want, err := mem.ReadBox([3]int{60, 60, 120}, [3]int{10, 5, 10})
			require.NoError(t, err)
			require.Equal(t, want, box)

			slab, err := s.ReadAlignedSlab([3]int{64, 0, 0}, [3]int{BrickSize, 2 * BrickSize, 3 * BrickSize})
			require.NoError(t, err)
			wantSlab, err := mem.ReadAlignedSlab([3]int{64, 0, 0}, [3]int{BrickSize, 2 * BrickSize, 3 * BrickSize})
			require.NoError(t, err)
			require.Equal(t, wantSlab, slab)
		})
	}
}

func TestFileStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-container")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0644))
	_, err := OpenFile(path)
	require.Error(t, err)
}

func TestFileWriterCompleteness(t *testing.T) {
	size := [3]int{3, 4, 2}
	path := filepath.Join(t.TempDir(), "partial.svc")
	w, err := CreateFile(path, testInfo(size, "none"))
	require.NoError(t, err)
	require.Error(t, w.Finish()) // no bricks written
}

func TestLimitedStorePassthrough(t *testing.T) {
	size := [3]int{3, 4, 2}
	data := testSamples(size)
	mem, err := NewMemStore(testInfo(size, "none"), data)
	require.NoError(t, err)
	s := NewLimited(mem, 1<<30)

	whole, err := s.ReadBox([3]int{}, size)
	require.NoError(t, err)
	require.Equal(t, data, whole)

	slab, err := s.ReadAlignedSlab([3]int{0, 0, 0}, [3]int{BrickSize, BrickSize, BrickSize})
	require.NoError(t, err)
	require.Len(t, slab, BrickSamples)
}
