/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mikeb26/ecfdash/config"
	"github.com/mikeb26/ecfdash/ecf"
	"github.com/mikeb26/ecfdash/internal"
)

// ecfSource is the part of ecf.Client the cli reads from.
type ecfSource interface {
	GetPlayerSummary(ctx context.Context, code string, gt ecf.GameType,
		opts ecf.SummaryOptions) (*ecf.PlayerSummary, error)
	SearchPlayers(ctx context.Context, name string) ([]ecf.Player, error)
}

// sourceFactory builds the ecfSource once the config is loaded.
type sourceFactory func(ctx context.Context, cfg *config.Config) ecfSource

func newECFClient(ctx context.Context, cfg *config.Config) ecfSource {
	return ecf.NewClient(ctx, cfg.ClientOptions())
}

func main() {
	app := newApp(os.Stdout, newECFClient, time.Now)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ecftd: %v\n", err)
		os.Exit(1)
	}
}

// cliEnv carries state shared by every subcommand.
type cliEnv struct {
	out       io.Writer
	newSource sourceFactory
	now       func() time.Time

	cfg    *config.Config
	source ecfSource
}

func newApp(out io.Writer, newSource sourceFactory,
	now func() time.Time) *cli.App {

	env := &cliEnv{out: out, newSource: newSource, now: now}

	return &cli.App{
		Name:      "ecftd",
		Usage:     "English Chess Federation rating reports",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a yaml config file",
				EnvVars: []string{config.EnvConfigPath},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override the configured log level",
			},
		},
		Before: env.before,
		Commands: []*cli.Command{
			env.summaryCommand("player", "ratings, recent performance and events",
				env.printPlayer, &cli.IntFlag{
					Name:  "events",
					Usage: "number of recent events to show",
					Value: 3,
				}),
			env.summaryCommand("games", "rated games in the window",
				env.printGames),
			env.summaryCommand("events", "rated games grouped by event",
				env.printEvents, &cli.IntFlag{
					Name:  "events",
					Usage: "number of recent events to show",
					Value: 10,
				}),
			env.summaryCommand("opponents", "most frequent opponents",
				env.printOpponents, &cli.IntFlag{
					Name:  "top",
					Usage: "number of opponents to show",
					Value: ecf.DefaultTopOpponents,
				}),
			env.summaryCommand("live", "live rating estimate",
				env.printLive),
			{
				Name:      "search",
				Usage:     "search for players by name",
				ArgsUsage: "<name>",
				Flags:     []cli.Flag{formatFlag()},
				Action:    env.search,
			},
		},
	}
}

func (env *cliEnv) before(c *cli.Context) error {
	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if l := c.String("log-level"); l != "" {
		level = l
	}
	if _, err := internal.InitLogger(level); err != nil {
		return err
	}
	env.cfg = cfg
	env.source = env.newSource(c.Context, cfg)

	return nil
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "output format: text, json or yaml",
		Value:   string(formatText),
	}
}

type summaryPrinter func(c *cli.Context, ps *ecf.PlayerSummary,
	format outputFormat) error

func (env *cliEnv) summaryCommand(name string, usage string,
	printer summaryPrinter, extra ...cli.Flag) *cli.Command {

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "game type: Standard, Rapid or Blitz",
			Value:   string(ecf.GameTypeStandard),
		},
		&cli.StringFlag{
			Name:    "window",
			Aliases: []string{"w"},
			Usage:   "time window: all, 5y, 2y, 1y, 6m or 3m",
			Value:   string(ecf.WindowAll),
		},
		&cli.IntFlag{
			Name:    "perf",
			Aliases: []string{"p"},
			Usage:   "number of recent games in the performance rating",
			Value:   ecf.DefaultPerformanceCount,
		},
		&cli.StringFlag{
			Name:  "asof",
			Usage: "report as of a date, e.g. 2024-03-09, 9/3/2024 or \"3 months ago\"",
		},
		formatFlag(),
	}
	flags = append(flags, extra...)

	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<code>",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			format, err := parseFormat(c.String("format"))
			if err != nil {
				return err
			}
			ps, err := env.fetchSummary(c)
			if err != nil {
				return err
			}
			return printer(c, ps, format)
		},
	}
}

func (env *cliEnv) fetchSummary(c *cli.Context) (*ecf.PlayerSummary, error) {
	code := strings.TrimSpace(c.Args().First())
	if code == "" {
		return nil, fmt.Errorf("%w; usage: ecftd %v [options] <code>",
			ecf.ErrPlayerCodeRequired, c.Command.Name)
	}
	gt, err := ecf.ParseGameType(c.String("type"))
	if err != nil {
		return nil, err
	}
	window, err := ecf.ParseWindow(c.String("window"))
	if err != nil {
		return nil, err
	}
	asOf, err := parseAsOf(c.String("asof"), env.now())
	if err != nil {
		return nil, err
	}

	opts := ecf.SummaryOptions{
		Window:           window,
		PerformanceCount: c.Int("perf"),
		TopOpponents:     env.cfg.Dashboard.TopOpponents,
		BestResults:      env.cfg.Dashboard.BestResults,
		Now:              asOf,
	}
	if c.IsSet("top") {
		opts.TopOpponents = c.Int("top")
	}

	return env.source.GetPlayerSummary(c.Context, code, gt, opts)
}

func (env *cliEnv) printPlayer(c *cli.Context, ps *ecf.PlayerSummary,
	format outputFormat) error {

	return writeOutput(env.out, format, ps, func() string {
		return ecf.BuildPlayerReport(ps, c.Int("events"))
	})
}

func (env *cliEnv) printGames(c *cli.Context, ps *ecf.PlayerSummary,
	format outputFormat) error {

	return writeOutput(env.out, format, ps.Summary.Games, func() string {
		if len(ps.Summary.Games) == 0 {
			return fmt.Sprintf("No rated %v games (%v).\n", ps.GameType,
				ps.Summary.Window.Label())
		}
		return ecf.BuildGamesReport(ps.Summary.Games)
	})
}

func (env *cliEnv) printEvents(c *cli.Context, ps *ecf.PlayerSummary,
	format outputFormat) error {

	count := c.Int("events")
	events := ps.Summary.Events
	if count > 0 && len(events) > count {
		events = events[:count]
	}
	return writeOutput(env.out, format, events, func() string {
		if len(events) == 0 {
			return fmt.Sprintf("No rated %v events (%v).\n", ps.GameType,
				ps.Summary.Window.Label())
		}
		return ecf.BuildEventsReport(events, len(events),
			env.cfg.Dashboard.UnreliableEventGames)
	})
}

func (env *cliEnv) printOpponents(c *cli.Context, ps *ecf.PlayerSummary,
	format outputFormat) error {

	return writeOutput(env.out, format, ps.Summary.Opponents, func() string {
		if len(ps.Summary.Opponents) == 0 {
			return fmt.Sprintf("No rated %v games (%v).\n", ps.GameType,
				ps.Summary.Window.Label())
		}
		return ecf.BuildOpponentsReport(ps.Summary.Opponents)
	})
}

// liveReport is the structured output of the live subcommand.
type liveReport struct {
	Code           string              `json:"code"`
	Name           string              `json:"name"`
	GameType       ecf.GameType        `json:"gameType"`
	LiveRating     *int                `json:"liveRating"`
	OfficialRating *ecf.OfficialRating `json:"officialRating"`
}

func (env *cliEnv) printLive(c *cli.Context, ps *ecf.PlayerSummary,
	format outputFormat) error {

	report := liveReport{
		GameType:       ps.GameType,
		LiveRating:     ps.Summary.LiveRating,
		OfficialRating: ps.Official,
	}
	if ps.Player != nil {
		report.Code = ps.Player.Code
		report.Name = ps.Player.Name
	}

	return writeOutput(env.out, format, report, func() string {
		live := "<unavailable>"
		if report.LiveRating != nil {
			live = fmt.Sprintf("%v", *report.LiveRating)
		}
		return fmt.Sprintf("%v (%v)\nLive Rating(%v): %v\n", report.Name,
			report.Code, report.GameType, live)
	})
}

func (env *cliEnv) search(c *cli.Context) error {
	format, err := parseFormat(c.String("format"))
	if err != nil {
		return err
	}
	name := strings.Join(c.Args().Slice(), " ")
	players, err := env.source.SearchPlayers(c.Context, name)
	if err != nil {
		return err
	}

	return writeOutput(env.out, format, players, func() string {
		if len(players) == 0 {
			return fmt.Sprintf("No players found matching %q.\n", name)
		}
		var sb strings.Builder
		for _, p := range players {
			sb.WriteString(fmt.Sprintf("%-8v %-30v %v\n", p.Code, p.Name,
				p.Club))
		}
		return sb.String()
	})
}
