// cmd/dump.go

package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/urfave/cli/v2"

	"SeisVol/pkg/seismic"
)

func writeSamples(path string, data []float32) error {
	buf := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return os.WriteFile(path, buf, 0644)
}

func summarize(data []float32) (float32, float32, float64) {
	if len(data) == 0 {
		return 0, 0, 0
	}
	lo, hi, sum := data[0], data[0], 0.0
	for _, v := range data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		sum += float64(v)
	}
	return lo, hi, sum / float64(len(data))
}

func dump(c *cli.Context) error {
	if c.Args().Len() < 1 {
		return fmt.Errorf("PATH is needed")
	}
	conf := &seismic.Config{CacheSize: c.Int64("cache-size")}
	r, err := seismic.Open(c.Args().Get(0), conf)
	if err != nil {
		logger.Fatalf("open: %s", err)
	}
	defer r.Close()

	byNumber := c.Bool("number")
	var data []float32
	var shape string
	switch {
	case c.IsSet("inline"):
		var s *seismic.Slice
		if byNumber {
			s, err = r.ReadInlineNumber(c.Int("inline"))
		} else {
			s, err = r.ReadInline(c.Int("inline"))
		}
		if err == nil {
			data, shape = s.Data, fmt.Sprintf("(%d, %d)", s.Rows, s.Cols)
		}
	case c.IsSet("crossline"):
		var s *seismic.Slice
		if byNumber {
			s, err = r.ReadCrosslineNumber(c.Int("crossline"))
		} else {
			s, err = r.ReadCrossline(c.Int("crossline"))
		}
		if err == nil {
			data, shape = s.Data, fmt.Sprintf("(%d, %d)", s.Rows, s.Cols)
		}
	case c.IsSet("zslice"):
		var s *seismic.Slice
		if byNumber {
			s, err = r.ReadZSliceCoord(c.Float64("zslice"))
		} else {
			s, err = r.ReadZSlice(int(c.Float64("zslice")))
		}
		if err == nil {
			data, shape = s.Data, fmt.Sprintf("(%d, %d)", s.Rows, s.Cols)
		}
	case c.IsSet("trace"):
		var pos []int
		pos, err = parseInts(c.String("trace"), 2)
		if err == nil {
			if byNumber {
				data, err = r.ReadTraceNumber(pos[0], pos[1])
			} else {
				data, err = r.ReadTrace(pos[0], pos[1])
			}
			shape = fmt.Sprintf("(%d)", len(data))
		}
	default:
		return fmt.Errorf("one of --inline, --crossline, --zslice, --trace is needed")
	}
	if err != nil {
		logger.Fatalf("read: %s", err)
	}

	if out := c.String("output"); out != "" {
		if err = writeSamples(out, data); err != nil {
			logger.Fatalf("write %s: %s", out, err)
		}
		logger.Infof("wrote %d samples of shape %s to %s", len(data), shape, out)
	} else {
		lo, hi, mean := summarize(data)
		fmt.Printf("shape %s: min %g, max %g, mean %g\n", shape, lo, hi, mean)
	}
	return nil
}

func dumpFlags() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "extract a slice or trace from a volume container",
		ArgsUsage: "PATH",
		Action:    dump,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "inline",
				Usage: "inline ordinal (or annotation number with --number)",
			},
			&cli.IntFlag{
				Name:  "crossline",
				Usage: "crossline ordinal (or annotation number with --number)",
			},
			&cli.Float64Flag{
				Name:  "zslice",
				Usage: "sample ordinal (or time/depth with --number)",
			},
			&cli.StringFlag{
				Name:  "trace",
				Usage: "trace position as il,xl",
			},
			&cli.BoolFlag{
				Name:    "number",
				Aliases: []string{"n"},
				Usage:   "interpret positions as annotation coordinates",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write raw little-endian float32 samples to this file",
			},
			&cli.Int64Flag{
				Name:  "cache-size",
				Value: 256,
				Usage: "size of brick cache in MiB",
			},
		},
	}
}
