// pkg/compress/compress_test.go

package compress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressors(t *testing.T) {
	src := make([]byte, 1<<16)
	for i := range src {
		src[i] = byte(i % 251)
	}
	for _, algr := range []string{"none", "lz4", "zstd"} {
		t.Run(algr, func(t *testing.T) {
			c := NewCompressor(algr)
			require.NotNil(t, c)
			dst := make([]byte, c.CompressBound(len(src)))
			n, err := c.Compress(dst, src)
			require.NoError(t, err)
			out := make([]byte, len(src))
			m, err := c.Decompress(out, dst[:n])
			require.NoError(t, err)
			require.Equal(t, len(src), m)
			require.Equal(t, src, out)
		})
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	require.Nil(t, NewCompressor("brotli"))
}
