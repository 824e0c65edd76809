// pkg/store/bwlimit.go

package store

import (
	"github.com/juju/ratelimit"
)

type bwlimit struct {
	VolumeStore
	downLimit *ratelimit.Bucket
}

// NewLimited caps the read bandwidth of a store, in bytes of decompressed
// samples per second.
func NewLimited(s VolumeStore, down int64) VolumeStore {
	bw := &bwlimit{s, nil}
	if down > 0 {
		// there are overheads coming from decompression and I/O
		bw.downLimit = ratelimit.NewBucketWithRate(float64(down)*0.85, down)
	}
	return bw
}

func (p *bwlimit) wait(samples int) {
	if p.downLimit != nil {
		p.downLimit.Wait(int64(samples) * 4)
	}
}

func (p *bwlimit) ReadBox(origin, shape [3]int) ([]float32, error) {
	p.wait(shape[0] * shape[1] * shape[2])
	return p.VolumeStore.ReadBox(origin, shape)
}

func (p *bwlimit) ReadAlignedSlab(origin, shape [3]int) ([]float32, error) {
	p.wait(shape[0] * shape[1] * shape[2])
	return p.VolumeStore.ReadAlignedSlab(origin, shape)
}
