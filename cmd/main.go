// cmd/main.go

package main

import (
	"os"

	"github.com/google/gops/agent"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"SeisVol/pkg/utils"
)

var logger = utils.GetLogger("seisvol")

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"debug", "v"},
			Usage:   "enable debug log",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only warning and errors",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "enable trace log",
		},
		&cli.StringFlag{
			Name:  "log",
			Usage: "append logs to `FILE` instead of stderr",
		},
		&cli.BoolFlag{
			Name:  "no-agent",
			Usage: "disable the diagnostic agent",
		},
	}
}

func setLoggerLevel(c *cli.Context) {
	if c.Bool("trace") {
		utils.SetLogLevel(logrus.TraceLevel)
	} else if c.Bool("verbose") {
		utils.SetLogLevel(logrus.DebugLevel)
	} else if c.Bool("quiet") {
		utils.SetLogLevel(logrus.WarnLevel)
	} else {
		utils.SetLogLevel(logrus.InfoLevel)
	}
}

func main() {
	app := &cli.App{
		Name:                 "seisvol",
		Usage:                "brick-cached random access into seismic volumes",
		Version:              "0.9.0",
		Copyright:            "Apache License 2.0",
		EnableBashCompletion: true,
		Flags:                globalFlags(),
		Before: func(c *cli.Context) error {
			setLoggerLevel(c)
			if path := c.String("log"); path != "" {
				utils.SetOutFile(path)
			}
			if !c.Bool("no-agent") {
				go func() {
					_ = agent.Listen(agent.Options{})
				}()
			}
			return nil
		},
		Commands: []*cli.Command{
			formatFlags(),
			infoFlags(),
			dumpFlags(),
			warmupFlags(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatalf("%s", err)
	}
}
