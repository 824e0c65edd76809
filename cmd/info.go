// cmd/info.go

package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"SeisVol/pkg/store"
)

type volumeInfo struct {
	Setting    *store.Info
	Bricks     [3]int
	TraceCount int
}

func printJson(v interface{}) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Fatalf("json: %s", err)
	}
	fmt.Println(string(output))
}

func info(ctx *cli.Context) error {
	if ctx.Args().Len() < 1 {
		return fmt.Errorf("PATH is needed")
	}
	s, err := store.OpenFile(ctx.Args().Get(0))
	if err != nil {
		logger.Fatalf("open: %s", err)
	}
	defer s.Close()
	in := s.Info()
	printJson(&volumeInfo{
		Setting:    in,
		Bricks:     in.Bricks(),
		TraceCount: in.Size[0] * in.Size[1],
	})
	return nil
}

func infoFlags() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "show header and geometry of a volume container",
		ArgsUsage: "PATH",
		Action:    info,
	}
}
