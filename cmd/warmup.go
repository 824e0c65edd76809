// cmd/warmup.go

package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"SeisVol/pkg/seismic"
	"SeisVol/pkg/utils"
)

func warmup(c *cli.Context) error {
	if c.Args().Len() < 1 {
		return fmt.Errorf("PATH is needed")
	}
	conf := &seismic.Config{CacheSize: c.Int64("cache-size")}
	r, err := seismic.Open(c.Args().Get(0), conf)
	if err != nil {
		logger.Fatalf("open: %s", err)
	}
	defer r.Close()

	dims := r.Dimensions()
	rows := (dims[0] + seismic.BrickSize - 1) / seismic.BrickSize
	progress, bar := utils.NewDynProgressBar("warming up: ", c.Bool("quiet"))
	bar.SetTotal(int64(rows), false)

	start := time.Now()
	err = r.FillCache(c.Int("threads"), func() { bar.Increment() })
	bar.SetTotal(0, true)
	progress.Wait()
	if err != nil {
		logger.Fatalf("warmup: %s", err)
	}
	bricks, bytes := r.CacheStats()
	logger.Infof("cached %d bricks (%d MiB) in %s", bricks, bytes>>20, time.Since(start))
	return nil
}

func warmupFlags() *cli.Command {
	return &cli.Command{
		Name:      "warmup",
		Usage:     "prefetch all bricks into the cache and time it",
		ArgsUsage: "PATH",
		Action:    warmup,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "threads",
				Aliases: []string{"p"},
				Value:   4,
				Usage:   "number of concurrent warmup workers",
			},
			&cli.Int64Flag{
				Name:  "cache-size",
				Value: 1024,
				Usage: "size of brick cache in MiB",
			},
		},
	}
}
