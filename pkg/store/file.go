// pkg/store/file.go

package store

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"

	"SeisVol/pkg/compress"
	"SeisVol/pkg/utils"
)

// Single-file brick container:
//
//	head:    magic "SVOL", u32 version, u32 header length, u32 reserved
//	header:  Info as JSON
//	bricks:  per-brick compressed blocks, any order
//	index:   one 12-byte entry (u64 offset, u32 length) per brick, il-major
//	trailer: u64 index offset, u32 entry count, magic "SVIX"
const (
	fileMagic    = "SVOL"
	indexMagic   = "SVIX"
	fileVersion  = 1
	headLen      = 16
	trailerLen   = 16
	indexEntrySz = 12
)

type indexEntry struct {
	off  uint64
	clen uint32
}

func brickSlot(nb [3]int, bi, bj, bk int) int {
	return (bi*nb[1]+bj)*nb[2] + bk
}

// FileWriter creates a volume container brick by brick.
type FileWriter struct {
	f       *os.File
	info    *Info
	compr   compress.Compressor
	nb      [3]int
	off     uint64
	entries []indexEntry
	written int
}

// CreateFile starts a new container at path, truncating any existing file.
func CreateFile(path string, info *Info) (*FileWriter, error) {
	compr := compress.NewCompressor(info.Compression)
	if compr == nil {
		return nil, errors.Errorf("unsupported compress algorithm: %s", info.Compression)
	}
	for a := 0; a < 3; a++ {
		if info.Size[a] <= 0 {
			return nil, errors.Errorf("invalid volume size %v", info.Size)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	header, err := json.Marshal(info)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	head := utils.NewBuffer(headLen)
	head.Put([]byte(fileMagic))
	head.Put32(fileVersion)
	head.Put32(uint32(len(header)))
	head.Put32(0)
	if _, err = f.Write(head.Bytes()); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err = f.Write(header); err != nil {
		_ = f.Close()
		return nil, err
	}
	nb := info.Bricks()
	return &FileWriter{
		f:       f,
		info:    info,
		compr:   compr,
		nb:      nb,
		off:     uint64(headLen + len(header)),
		entries: make([]indexEntry, nb[0]*nb[1]*nb[2]),
	}, nil
}

// WriteBrick stores one full (zero-padded) brick, il-major within the brick.
func (w *FileWriter) WriteBrick(bi, bj, bk int, samples []float32) error {
	if bi < 0 || bi >= w.nb[0] || bj < 0 || bj >= w.nb[1] || bk < 0 || bk >= w.nb[2] {
		return errors.Errorf("brick (%d,%d,%d) outside grid %v", bi, bj, bk, w.nb)
	}
	if len(samples) != BrickSamples {
		return errors.Errorf("brick needs %d samples, got %d", BrickSamples, len(samples))
	}
	slot := brickSlot(w.nb, bi, bj, bk)
	if w.entries[slot].clen != 0 {
		return errors.Errorf("brick (%d,%d,%d) written twice", bi, bj, bk)
	}
	raw := encodeSamples(samples)
	dst := make([]byte, w.compr.CompressBound(len(raw)))
	n, err := w.compr.Compress(dst, raw)
	if err != nil {
		return errors.Wrapf(err, "compress brick (%d,%d,%d)", bi, bj, bk)
	}
	if _, err = w.f.Write(dst[:n]); err != nil {
		return err
	}
	w.entries[slot] = indexEntry{off: w.off, clen: uint32(n)}
	w.off += uint64(n)
	w.written++
	return nil
}

// Finish writes the brick index and the trailer, then closes the file.
func (w *FileWriter) Finish() error {
	total := w.nb[0] * w.nb[1] * w.nb[2]
	if w.written != total {
		_ = w.f.Close()
		return errors.Errorf("container has %d of %d bricks", w.written, total)
	}
	buf := utils.NewBuffer(uint32(total*indexEntrySz + trailerLen))
	for _, e := range w.entries {
		buf.Put64(e.off)
		buf.Put32(e.clen)
	}
	buf.Put64(w.off)
	buf.Put32(uint32(total))
	buf.Put([]byte(indexMagic))
	if _, err := w.f.Write(buf.Bytes()); err != nil {
		_ = w.f.Close()
		return err
	}
	logger.Debugf("wrote %d bricks (%d bytes) to %s", total, w.off, w.f.Name())
	return w.f.Close()
}

// Abort closes and removes the partial container.
func (w *FileWriter) Abort() {
	name := w.f.Name()
	_ = w.f.Close()
	_ = os.Remove(name)
}

// FileStore reads bricks from a volume container.
type FileStore struct {
	f     *os.File
	info  *Info
	compr compress.Compressor
	nb    [3]int
	index []indexEntry
}

// OpenFile opens an existing container for reading.
func OpenFile(path string) (*FileStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := readContainer(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return s, nil
}

func readContainer(f *os.File) (*FileStore, error) {
	head := make([]byte, headLen)
	if _, err := f.ReadAt(head, 0); err != nil {
		return nil, err
	}
	rb := utils.ReadBuffer(head)
	if string(rb.Get(4)) != fileMagic {
		return nil, errors.New("not a volume container")
	}
	if v := rb.Get32(); v != fileVersion {
		return nil, errors.Errorf("unsupported container version %d", v)
	}
	headerLen := rb.Get32()
	header := make([]byte, headerLen)
	if _, err := f.ReadAt(header, headLen); err != nil {
		return nil, err
	}
	info := new(Info)
	if err := json.Unmarshal(header, info); err != nil {
		return nil, errors.Wrap(err, "parse header")
	}
	compr := compress.NewCompressor(info.Compression)
	if compr == nil {
		return nil, errors.Errorf("unsupported compress algorithm: %s", info.Compression)
	}
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	trailer := make([]byte, trailerLen)
	if _, err = f.ReadAt(trailer, st.Size()-trailerLen); err != nil {
		return nil, err
	}
	rb = utils.ReadBuffer(trailer)
	indexOff := rb.Get64()
	count := int(rb.Get32())
	if string(rb.Get(4)) != indexMagic {
		return nil, errors.New("corrupt container: index magic not found")
	}
	nb := info.Bricks()
	if count != nb[0]*nb[1]*nb[2] {
		return nil, errors.Errorf("corrupt container: %d index entries for %d bricks", count, nb[0]*nb[1]*nb[2])
	}
	raw := make([]byte, count*indexEntrySz)
	if _, err = f.ReadAt(raw, int64(indexOff)); err != nil {
		return nil, err
	}
	rb = utils.ReadBuffer(raw)
	index := make([]indexEntry, count)
	for i := range index {
		index[i] = indexEntry{off: rb.Get64(), clen: rb.Get32()}
	}
	return &FileStore{f: f, info: info, compr: compr, nb: nb, index: index}, nil
}

func (s *FileStore) Info() *Info { return s.info }

func (s *FileStore) loadBrick(bi, bj, bk int) ([]float32, error) {
	e := s.index[brickSlot(s.nb, bi, bj, bk)]
	blob := make([]byte, e.clen)
	if _, err := s.f.ReadAt(blob, int64(e.off)); err != nil {
		return nil, errors.Wrapf(err, "read brick (%d,%d,%d)", bi, bj, bk)
	}
	raw := make([]byte, BrickSamples*4)
	n, err := s.compr.Decompress(raw, blob)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress brick (%d,%d,%d)", bi, bj, bk)
	}
	if n != len(raw) {
		return nil, errors.Errorf("brick (%d,%d,%d) decompressed to %d bytes", bi, bj, bk, n)
	}
	return decodeSamples(raw), nil
}

func (s *FileStore) ReadBox(origin, shape [3]int) ([]float32, error) {
	for a := 0; a < 3; a++ {
		if origin[a] < 0 || shape[a] < 0 || origin[a]+shape[a] > s.info.Size[a] {
			return nil, errors.Errorf("box origin %v shape %v exceeds volume %v", origin, shape, s.info.Size)
		}
	}
	out := make([]float32, shape[0]*shape[1]*shape[2])
	if len(out) == 0 {
		return out, nil
	}
	for bi := origin[0] / BrickSize; bi <= (origin[0]+shape[0]-1)/BrickSize; bi++ {
		for bj := origin[1] / BrickSize; bj <= (origin[1]+shape[1]-1)/BrickSize; bj++ {
			for bk := origin[2] / BrickSize; bk <= (origin[2]+shape[2]-1)/BrickSize; bk++ {
				data, err := s.loadBrick(bi, bj, bk)
				if err != nil {
					return nil, err
				}
				i0, i1 := clip(origin[0], shape[0], bi)
				j0, j1 := clip(origin[1], shape[1], bj)
				k0, k1 := clip(origin[2], shape[2], bk)
				for i := i0; i < i1; i++ {
					for j := j0; j < j1; j++ {
						src := ((i%BrickSize)*BrickSize+j%BrickSize)*BrickSize + k0%BrickSize
						dst := ((i-origin[0])*shape[1]+j-origin[1])*shape[2] + k0 - origin[2]
						copy(out[dst:dst+k1-k0], data[src:src+k1-k0])
					}
				}
			}
		}
	}
	return out, nil
}

func (s *FileStore) ReadAlignedSlab(origin, shape [3]int) ([]float32, error) {
	for a := 0; a < 3; a++ {
		if origin[a] < 0 || origin[a]%BrickSize != 0 || shape[a] <= 0 || shape[a]%BrickSize != 0 {
			return nil, errors.Errorf("slab origin %v shape %v is not brick aligned", origin, shape)
		}
	}
	out := make([]float32, shape[0]*shape[1]*shape[2])
	for bi := origin[0] / BrickSize; bi < (origin[0]+shape[0])/BrickSize; bi++ {
		if bi >= s.nb[0] {
			break
		}
		for bj := origin[1] / BrickSize; bj < (origin[1]+shape[1])/BrickSize; bj++ {
			if bj >= s.nb[1] {
				break
			}
			for bk := origin[2] / BrickSize; bk < (origin[2]+shape[2])/BrickSize; bk++ {
				if bk >= s.nb[2] {
					break
				}
				data, err := s.loadBrick(bi, bj, bk)
				if err != nil {
					return nil, err
				}
				// whole bricks, already padded at volume edges
				base := [3]int{bi*BrickSize - origin[0], bj*BrickSize - origin[1], bk*BrickSize - origin[2]}
				for i := 0; i < BrickSize; i++ {
					for j := 0; j < BrickSize; j++ {
						src := (i*BrickSize + j) * BrickSize
						dst := ((base[0]+i)*shape[1]+base[1]+j)*shape[2] + base[2]
						copy(out[dst:dst+BrickSize], data[src:src+BrickSize])
					}
				}
			}
		}
	}
	return out, nil
}

func (s *FileStore) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// clip returns the intersection of [origin, origin+extent) with brick b of
// the same axis.
func clip(origin, extent, b int) (int, int) {
	lo, hi := b*BrickSize, (b+1)*BrickSize
	if origin > lo {
		lo = origin
	}
	if origin+extent < hi {
		hi = origin + extent
	}
	return lo, hi
}

func encodeSamples(samples []float32) []byte {
	buf := make([]byte, len(samples)*4)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeSamples(buf []byte) []float32 {
	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}
