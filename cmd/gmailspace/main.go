package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/thehowl/gmailspace/internal/config"
	"github.com/thehowl/gmailspace/internal/version"
)

// env carries what the Before hook prepares for the commands.
type env struct {
	cfg  *config.Config
	log  *zap.Logger
	json bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	e := &env{}
	return &cli.App{
		Name:      "gmailspace",
		Usage:     "Map integers to Gmail usernames and back",
		Version:   version.FullInfo(),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultPath,
				Usage:   "Config file path",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error), overrides config",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON lines",
			},
		},
		Before: func(c *cli.Context) error {
			return e.setup(c)
		},
		After: func(c *cli.Context) error {
			if e.log != nil {
				_ = e.log.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			decodeCommand(e),
			encodeCommand(e),
			checkCommand(e),
			pageCommand(e),
			randomCommand(e),
			statsCommand(e),
			serveCommand(e),
		},
	}
}

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
