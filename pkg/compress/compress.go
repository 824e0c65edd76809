// pkg/compress/compress.go

package compress

import (
	"strings"

	"github.com/DataDog/zstd"
	lz4 "github.com/hungys/go-lz4"
	"github.com/pkg/errors"
)

// Compressor is the codec used for brick blocks inside a volume container.
type Compressor interface {
	Name() string
	CompressBound(len int) int
	Compress(dst, src []byte) (int, error)
	Decompress(dst, src []byte) (int, error)
}

// NewCompressor returns the compressor for the given algorithm, or nil if
// the algorithm is not supported.
func NewCompressor(algr string) Compressor {
	switch strings.ToLower(algr) {
	case "lz4":
		return LZ4{}
	case "zstd":
		return ZStandard{level: 1}
	case "none", "":
		return noOp{}
	}
	return nil
}

type noOp struct{}

func (n noOp) Name() string            { return "None" }
func (n noOp) CompressBound(l int) int { return l }
func (n noOp) Compress(dst, src []byte) (int, error) {
	if len(dst) < len(src) {
		return 0, errors.New("buffer too short")
	}
	return copy(dst, src), nil
}
func (n noOp) Decompress(dst, src []byte) (int, error) {
	if len(dst) < len(src) {
		return 0, errors.New("buffer too short")
	}
	return copy(dst, src), nil
}

type LZ4 struct{}

func (l LZ4) Name() string               { return "LZ4" }
func (l LZ4) CompressBound(size int) int { return lz4.CompressBound(size) }
func (l LZ4) Compress(dst, src []byte) (int, error) {
	return lz4.CompressDefault(src, dst)
}
func (l LZ4) Decompress(dst, src []byte) (int, error) {
	return lz4.DecompressSafe(src, dst)
}

type ZStandard struct {
	level int
}

func (n ZStandard) Name() string            { return "Zstd" }
func (n ZStandard) CompressBound(l int) int { return zstd.CompressBound(l) }
func (n ZStandard) Compress(dst, src []byte) (int, error) {
	d, err := zstd.CompressLevel(dst[:0], src, n.level)
	if err != nil {
		return 0, err
	}
	if len(d) > cap(dst) {
		return 0, errors.New("buffer too short")
	}
	return len(d), err
}
func (n ZStandard) Decompress(dst, src []byte) (int, error) {
	d, err := zstd.Decompress(dst[:0], src)
	if err != nil {
		return 0, err
	}
	if len(d) > cap(dst) {
		return 0, errors.New("buffer too short")
	}
	return len(d), err
}
