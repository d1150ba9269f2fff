// Command redpatch computes and applies binary patches in the version
// 1000 format implemented by github.com/BSG-75/ARPatcherData.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var logger = logrus.New()

func main() {
	app := NewApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "redpatch: %v\n", err)
		os.Exit(1)
	}
}

func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "redpatch"
	app.Usage = "compute and apply binary patches between two files"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable debug logging",
		},
	}
	app.Before = func(c *cli.Context) error {
		if c.Bool("verbose") {
			logger.SetLevel(logrus.DebugLevel)
		}
		return nil
	}
	app.Commands = []*cli.Command{
		diffCommand(),
		applyCommand(),
		inspectCommand(),
	}
	return app
}
