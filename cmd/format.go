// cmd/format.go

package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"SeisVol/pkg/compress"
	"SeisVol/pkg/store"
	"SeisVol/pkg/utils"
)

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %q", n, s)
	}
	vs := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %q", n, s)
	}
	vs := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func loadSamples(path string, want int) ([]float32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) != want*4 {
		return nil, fmt.Errorf("%s holds %d bytes, volume needs %d", path, len(raw), want*4)
	}
	data := make([]float32, want)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return data, nil
}

// rampSamples fills a synthetic volume where every sample encodes its own
// ordinals, handy for smoke testing.
func rampSamples(size [3]int) []float32 {
	data := make([]float32, size[0]*size[1]*size[2])
	n := 0
	for i := 0; i < size[0]; i++ {
		for j := 0; j < size[1]; j++ {
			for k := 0; k < size[2]; k++ {
				data[n] = float32(i*10000 + j*100 + k)
				n++
			}
		}
	}
	return data
}

func format(c *cli.Context) error {
	if c.Args().Len() < 1 {
		logger.Fatalf("PATH is required")
	}
	path := c.Args().Get(0)
	if utils.Exists(path) && !c.Bool("force") {
		logger.Fatalf("%s exists, use --force to overwrite", path)
	}
	if compress.NewCompressor(c.String("compress")) == nil {
		logger.Fatalf("Unsupported compress algorithm: %s", c.String("compress"))
	}
	sz, err := parseInts(c.String("size"), 3)
	if err != nil {
		logger.Fatalf("size: %s", err)
	}
	annot, err := parseInts(c.String("annotation"), 4)
	if err != nil {
		logger.Fatalf("annotation: %s", err)
	}
	zaxis, err := parseFloats(c.String("zaxis"), 2)
	if err != nil {
		logger.Fatalf("zaxis: %s", err)
	}
	origin, err := parseFloats(c.String("origin"), 2)
	if err != nil {
		logger.Fatalf("origin: %s", err)
	}
	ilStep, err := parseFloats(c.String("il-step"), 2)
	if err != nil {
		logger.Fatalf("il-step: %s", err)
	}
	xlStep, err := parseFloats(c.String("xl-step"), 2)
	if err != nil {
		logger.Fatalf("xl-step: %s", err)
	}

	size := [3]int{sz[0], sz[1], sz[2]}
	ilSpan, xlSpan := float64(size[0]-1), float64(size[1]-1)
	info := &store.Info{
		Name:        c.String("name"),
		UUID:        uuid.New().String(),
		Compression: c.String("compress"),
		Size:        size,
		AnnotStart:  [2]int{annot[0], annot[2]},
		AnnotInc:    [2]int{annot[1], annot[3]},
		ZStart:      zaxis[0],
		ZInc:        zaxis[1],
		Corners: [4][2]float64{
			{origin[0], origin[1]},
			{origin[0] + ilSpan*ilStep[0], origin[1] + ilSpan*ilStep[1]},
			{origin[0] + xlSpan*xlStep[0], origin[1] + xlSpan*xlStep[1]},
			{origin[0] + ilSpan*ilStep[0] + xlSpan*xlStep[0], origin[1] + ilSpan*ilStep[1] + xlSpan*xlStep[1]},
		},
	}
	if info.Name == "" {
		info.Name = strings.TrimSuffix(path, ".svc")
	}

	var data []float32
	if input := c.String("input"); input != "" {
		data, err = loadSamples(input, size[0]*size[1]*size[2])
		if err != nil {
			logger.Fatalf("input: %s", err)
		}
	} else {
		logger.Infof("no input given, filling a synthetic ramp volume")
		data = rampSamples(size)
	}
	mem, err := store.NewMemStore(info, data)
	if err != nil {
		logger.Fatalf("stage volume: %s", err)
	}

	w, err := store.CreateFile(path, info)
	if err != nil {
		logger.Fatalf("create %s: %s", path, err)
	}
	nb := info.Bricks()
	for bi := 0; bi < nb[0]; bi++ {
		for bj := 0; bj < nb[1]; bj++ {
			for bk := 0; bk < nb[2]; bk++ {
				if err = w.WriteBrick(bi, bj, bk, mem.Brick(bi, bj, bk)); err != nil {
					w.Abort()
					logger.Fatalf("write brick: %s", err)
				}
			}
		}
	}
	if err = w.Finish(); err != nil {
		logger.Fatalf("finish %s: %s", path, err)
	}
	logger.Infof("Volume is formatted as %+v", info)
	return nil
}

func formatFlags() *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "create a volume container from raw samples",
		ArgsUsage: "PATH",
		Action:    format,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "name",
				Usage: "volume name (defaults to the file name)",
			},
			&cli.StringFlag{
				Name:     "size",
				Usage:    "volume shape as inlines,crosslines,samples",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "annotation",
				Value: "1,1,1,1",
				Usage: "inline start,step and crossline start,step",
			},
			&cli.StringFlag{
				Name:  "zaxis",
				Value: "0,4",
				Usage: "sample axis start,step (ms)",
			},
			&cli.StringFlag{
				Name:  "origin",
				Value: "0,0",
				Usage: "easting,northing of the first corner",
			},
			&cli.StringFlag{
				Name:  "il-step",
				Value: "1,0",
				Usage: "easting,northing step per inline",
			},
			&cli.StringFlag{
				Name:  "xl-step",
				Value: "0,1",
				Usage: "easting,northing step per crossline",
			},
			&cli.StringFlag{
				Name:  "input",
				Usage: "raw little-endian float32 samples, il-major (synthetic ramp if omitted)",
			},
			&cli.StringFlag{
				Name:  "compress",
				Value: "none",
				Usage: "compression algorithm (lz4, zstd, none)",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite existing container",
			},
		},
	}
}
