package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	gmailspace "github.com/thehowl/gmailspace"
	"github.com/thehowl/gmailspace/internal/alphabet"
	"github.com/thehowl/gmailspace/internal/config"
	"github.com/thehowl/gmailspace/internal/cursor"
	"github.com/thehowl/gmailspace/internal/logger"
	"github.com/thehowl/gmailspace/internal/server"
	"github.com/thehowl/gmailspace/internal/version"
)

const suggestionLimit = 3

// setup loads the config file and applies the global flag overrides.
func (e *env) setup(c *cli.Context) error {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return errors.Wrapf(err, "load config %s", path)
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	e.cfg = cfg
	e.log = log
	e.json = c.Bool("json")
	return nil
}

type entryOutput struct {
	Index    string `json:"index"`
	Username string `json:"username"`
}

// printEntry writes one entry as a JSON line or as "index<TAB>username".
func (e *env) printEntry(c *cli.Context, index *big.Int, username string) error {
	if e.json {
		return json.NewEncoder(c.App.Writer).Encode(entryOutput{Index: index.String(), Username: username})
	}
	_, err := fmt.Fprintf(c.App.Writer, "%s\t%s\n", index, username)
	return err
}

// inputArgs returns the positional arguments, or the whitespace separated
// words of standard input when there are none or the only one is "-".
func inputArgs(c *cli.Context, what string) ([]string, error) {
	args := c.Args().Slice()
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		args = nil
		sc := bufio.NewScanner(c.App.Reader)
		sc.Split(bufio.ScanWords)
		for sc.Scan() {
			args = append(args, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "read standard input")
		}
	}
	if len(args) == 0 {
		return nil, errors.Errorf("at least one %s is required", what)
	}
	return args, nil
}

func parseIndex(s string) (*big.Int, error) {
	idx, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("invalid index %q: not a decimal integer", s)
	}
	return idx, nil
}

func decodeCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Aliases:   []string{"d"},
		Usage:     "Print the usernames at the given indices",
		ArgsUsage: "[INDEX...]",
		Action: func(c *cli.Context) error {
			args, err := inputArgs(c, "index")
			if err != nil {
				return err
			}
			for _, arg := range args {
				idx, err := parseIndex(arg)
				if err != nil {
					return err
				}
				name, err := gmailspace.Decode(idx)
				if err != nil {
					return errors.Wrapf(err, "decode %s", arg)
				}
				if err := e.printEntry(c, idx, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func encodeCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Aliases:   []string{"e"},
		Usage:     "Print the indices of the given usernames",
		ArgsUsage: "[USERNAME...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "normalize",
				Aliases: []string{"n"},
				Usage:   "Lowercase, drop periods and the @gmail.com domain first",
			},
		},
		Action: func(c *cli.Context) error {
			args, err := inputArgs(c, "username")
			if err != nil {
				return err
			}
			invalid := 0
			for _, arg := range args {
				name := arg
				if c.Bool("normalize") {
					name = gmailspace.Normalize(name)
				}
				idx, ok := gmailspace.Encode(name)
				if !ok {
					invalid++
					fmt.Fprintf(c.App.ErrWriter, "%s: %s\n", arg, color.RedString("%v", gmailspace.Validate(name)))
					continue
				}
				if err := e.printEntry(c, idx, name); err != nil {
					return err
				}
			}
			if invalid > 0 {
				return errors.Errorf("%d of %d usernames invalid", invalid, len(args))
			}
			return nil
		},
	}
}

type checkOutput struct {
	Username    string        `json:"username"`
	Valid       bool          `json:"valid"`
	Index       string        `json:"index,omitempty"`
	Reason      string        `json:"reason,omitempty"`
	Position    *int          `json:"position,omitempty"`
	Suggestions []entryOutput `json:"suggestions,omitempty"`
}

func checkCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate usernames and suggest fixes for invalid ones",
		ArgsUsage: "[USERNAME...]",
		Action: func(c *cli.Context) error {
			args, err := inputArgs(c, "username")
			if err != nil {
				return err
			}
			invalid := 0
			for _, name := range args {
				out := checkOutput{Username: name}
				var ierr *gmailspace.InvalidError
				if err := gmailspace.Validate(name); errors.As(err, &ierr) {
					invalid++
					out.Reason = ierr.Reason.String()
					out.Position = &ierr.Pos
					for _, s := range gmailspace.Suggest(name, suggestionLimit) {
						out.Suggestions = append(out.Suggestions, entryOutput{Index: s.Index.String(), Username: s.Username})
					}
				} else {
					idx, _ := gmailspace.Encode(name)
					out.Valid = true
					out.Index = idx.String()
				}
				if err := e.printCheck(c, out); err != nil {
					return err
				}
			}
			if invalid > 0 {
				return errors.Errorf("%d of %d usernames invalid", invalid, len(args))
			}
			return nil
		},
	}
}

func (e *env) printCheck(c *cli.Context, out checkOutput) error {
	w := c.App.Writer
	if e.json {
		return json.NewEncoder(w).Encode(out)
	}
	if out.Valid {
		_, err := fmt.Fprintf(w, "%s: %s (index %s)\n", out.Username, color.GreenString("valid"), out.Index)
		return err
	}
	fmt.Fprintf(w, "%s: %s at byte %d\n", out.Username, color.RedString(out.Reason), *out.Position)
	for _, s := range out.Suggestions {
		fmt.Fprintf(w, "  try %s (index %s)\n", color.CyanString(s.Username), s.Index)
	}
	return nil
}

func pageCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "page",
		Usage: "List consecutive usernames",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "start",
				Value: "0",
				Usage: "First index to list",
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of usernames (default from config)",
			},
			&cli.StringFlag{
				Name:  "cursor",
				Usage: "Continue from a cursor printed by a previous page",
			},
		},
		Action: func(c *cli.Context) error {
			start, err := parseIndex(c.String("start"))
			if err != nil {
				return err
			}
			if tok := c.String("cursor"); tok != "" {
				if start, err = cursor.Decode(tok); err != nil {
					return errors.Wrap(err, "invalid cursor")
				}
			}
			count := c.Int("count")
			if count <= 0 {
				count = e.cfg.Page.DefaultSize
			}

			entries, err := gmailspace.Page(contextOf(c), start, count, e.cfg.Page.Workers)
			if err != nil {
				return errors.Wrapf(err, "page at %s", start)
			}
			for _, en := range entries {
				if err := e.printEntry(c, en.Index, en.Username); err != nil {
					return err
				}
			}

			next := new(big.Int).Add(start, big.NewInt(int64(len(entries))))
			if next.Cmp(gmailspace.Total()) < 0 && !e.json {
				fmt.Fprintf(c.App.ErrWriter, "next: %s\n", cursor.Encode(next))
			}
			return nil
		},
	}
}

func randomCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "random",
		Usage: "Print uniformly random usernames",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Value: 1,
				Usage: "Number of usernames",
			},
		},
		Action: func(c *cli.Context) error {
			for i := 0; i < c.Int("count"); i++ {
				en, err := gmailspace.Random(nil)
				if err != nil {
					return err
				}
				if err := e.printEntry(c, en.Index, en.Username); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

type bandOutput struct {
	Length int    `json:"length"`
	Offset string `json:"offset"`
	Count  string `json:"count"`
}

type statsOutput struct {
	Total    string       `json:"total"`
	Alphabet string       `json:"alphabet"`
	Bands    []bandOutput `json:"bands"`
	Version  string       `json:"version"`
}

func statsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show the size of the username space per length",
		Action: func(c *cli.Context) error {
			w := c.App.Writer
			bands := gmailspace.Bands()
			if e.json {
				out := statsOutput{
					Total:    gmailspace.Total().String(),
					Alphabet: alphabet.Symbols(),
					Version:  version.Version,
				}
				for _, b := range bands {
					out.Bands = append(out.Bands, bandOutput{
						Length: b.Length,
						Offset: b.Offset.String(),
						Count:  b.Count.String(),
					})
				}
				return json.NewEncoder(w).Encode(out)
			}

			fmt.Fprintf(w, "alphabet: %s (%d symbols)\n", alphabet.Symbols(), alphabet.Size)
			fmt.Fprintf(w, "total:    %s\n", gmailspace.Total())
			fmt.Fprintf(w, "%6s  %-50s  %s\n", "length", "offset", "count")
			for _, b := range bands {
				fmt.Fprintf(w, "%6d  %-50s  %s\n", b.Length, b.Offset, b.Count)
			}
			return nil
		},
	}
}

func serveCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides config",
			},
		},
		Action: func(c *cli.Context) error {
			if addr := c.String("addr"); addr != "" {
				e.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(contextOf(c), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e.log.Info("starting gmailspace", zap.String("version", version.FullInfo()))
			if err := server.New(e.cfg, e.log).Run(ctx); err != nil {
				return errors.Wrap(err, "serve")
			}
			e.log.Info("stopped")
			return nil
		},
	}
}

func contextOf(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}
