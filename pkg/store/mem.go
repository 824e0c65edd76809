// pkg/store/mem.go

package store

import (
	"github.com/pkg/errors"

	"SeisVol/pkg/utils"
)

// MemStore serves a volume from a dense in-memory sample buffer. It is used
// as an ingest staging area and as a test fixture.
type MemStore struct {
	info *Info
	data []float32 // il-major: ((i*nXL)+j)*nZ + k
}

func NewMemStore(info *Info, data []float32) (*MemStore, error) {
	want := info.Size[0] * info.Size[1] * info.Size[2]
	if len(data) != want {
		return nil, errors.Errorf("volume %v needs %d samples, got %d", info.Size, want, len(data))
	}
	return &MemStore{info: info, data: data}, nil
}

func (s *MemStore) Info() *Info { return s.info }

func (s *MemStore) ReadBox(origin, shape [3]int) ([]float32, error) {
	for a := 0; a < 3; a++ {
		if origin[a] < 0 || shape[a] < 0 || origin[a]+shape[a] > s.info.Size[a] {
			return nil, errors.Errorf("box origin %v shape %v exceeds volume %v", origin, shape, s.info.Size)
		}
	}
	return s.copyBox(origin, shape), nil
}

func (s *MemStore) ReadAlignedSlab(origin, shape [3]int) ([]float32, error) {
	for a := 0; a < 3; a++ {
		if origin[a] < 0 || origin[a]%BrickSize != 0 || shape[a] <= 0 || shape[a]%BrickSize != 0 {
			return nil, errors.Errorf("slab origin %v shape %v is not brick aligned", origin, shape)
		}
	}
	out := make([]float32, shape[0]*shape[1]*shape[2])
	var n [3]int // extent of the slab that intersects the volume
	for a := 0; a < 3; a++ {
		n[a] = utils.Min(shape[a], s.info.Size[a]-origin[a])
		if n[a] <= 0 {
			return out, nil
		}
	}
	nXL, nZ := s.info.Size[1], s.info.Size[2]
	for i := 0; i < n[0]; i++ {
		for j := 0; j < n[1]; j++ {
			src := ((origin[0]+i)*nXL+origin[1]+j)*nZ + origin[2]
			dst := (i*shape[1] + j) * shape[2]
			copy(out[dst:dst+n[2]], s.data[src:src+n[2]])
		}
	}
	return out, nil
}

func (s *MemStore) copyBox(origin, shape [3]int) []float32 {
	out := make([]float32, shape[0]*shape[1]*shape[2])
	nXL, nZ := s.info.Size[1], s.info.Size[2]
	for i := 0; i < shape[0]; i++ {
		for j := 0; j < shape[1]; j++ {
			src := ((origin[0]+i)*nXL+origin[1]+j)*nZ + origin[2]
			dst := (i*shape[1] + j) * shape[2]
			copy(out[dst:dst+shape[2]], s.data[src:src+shape[2]])
		}
	}
	return out
}

// Brick returns the full zero-padded brick at the given brick coordinate,
// il-major within the brick. Used when writing containers.
func (s *MemStore) Brick(bi, bj, bk int) []float32 {
	origin := [3]int{bi * BrickSize, bj * BrickSize, bk * BrickSize}
	out := make([]float32, BrickSamples)
	nXL, nZ := s.info.Size[1], s.info.Size[2]
	ni := utils.Min(BrickSize, s.info.Size[0]-origin[0])
	nj := utils.Min(BrickSize, s.info.Size[1]-origin[1])
	nk := utils.Min(BrickSize, s.info.Size[2]-origin[2])
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			src := ((origin[0]+i)*nXL+origin[1]+j)*nZ + origin[2]
			dst := (i*BrickSize + j) * BrickSize
			copy(out[dst:dst+nk], s.data[src:src+nk])
		}
	}
	return out
}

func (s *MemStore) Close() error {
	s.data = nil
	return nil
}
