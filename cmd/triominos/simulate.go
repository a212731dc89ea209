package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lox/triominos/internal/config"
	"github.com/lox/triominos/internal/console"
	"github.com/lox/triominos/internal/player"
	"github.com/lox/triominos/internal/tournament"
)

// SimulateCmd runs a bot-only tournament.
type SimulateCmd struct {
	Games           int      `short:"n" help:"Number of games (default from config)"`
	Workers         int      `short:"w" help:"Parallel workers (default from config)"`
	Player          []string `short:"p" placeholder:"NAME=STRATEGY" help:"Entrant, repeatable; overrides the config players"`
	Report          string   `type:"path" help:"Write a JSON report to this file"`
	ResultsLog      string   `type:"path" help:"Append one JSON line per game to this file"`
	CheckInvariants bool     `help:"Validate the stone partition after every turn"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	logOut, closeLog, err := globals.logOutput(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	logger, err := setupLogger(cfg.LogLevel, logOut)
	if err != nil {
		return err
	}

	entrants, err := c.entrants(cfg)
	if err != nil {
		return err
	}

	tc := tournament.Config{
		Games:           cfg.Tournament.Games,
		Workers:         cfg.Tournament.Workers,
		Seed:            cfg.Seed,
		Entrants:        entrants,
		HandSize:        cfg.HandSize,
		TargetScore:     cfg.TargetScore,
		RoundBonus:      cfg.RoundBonus,
		CheckInvariants: c.CheckInvariants,
		Logger:          logger,
	}
	if c.Games > 0 {
		tc.Games = c.Games
	}
	if c.Workers > 0 {
		tc.Workers = c.Workers
	}

	resultsLog := c.ResultsLog
	if resultsLog == "" {
		resultsLog = cfg.Tournament.ResultsLog
	}
	if resultsLog != "" {
		f, err := os.OpenFile(resultsLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open results log: %w", err)
		}
		defer f.Close()
		tc.ResultsLog = f
	}

	runner, err := tournament.New(tc)
	if err != nil {
		return err
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	logger.Info("simulating", "games", tc.Games, "seed", tc.Seed, "entrants", len(entrants))
	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	render := console.NewRenderer(os.Stdout, !globals.NoColor)
	fmt.Println(render.Summary(summary))

	report := c.Report
	if report == "" {
		report = cfg.Tournament.Report
	}
	if report != "" {
		if err := summary.WriteReport(report); err != nil {
			return err
		}
		logger.Info("report written", "path", report)
	}
	return nil
}

// entrants uses --player flags when given, otherwise the configured bot
// players. Interactive seats are skipped.
func (c *SimulateCmd) entrants(cfg *config.Config) ([]tournament.Entrant, error) {
	var entrants []tournament.Entrant

	if len(c.Player) > 0 {
		for _, entry := range c.Player {
			name, strategy, ok := strings.Cut(entry, "=")
			if !ok || name == "" {
				return nil, fmt.Errorf("invalid entrant %q, want NAME=STRATEGY", entry)
			}
			s, err := player.ParseStrategy(strategy)
			if err != nil {
				return nil, err
			}
			entrants = append(entrants, tournament.Entrant{Name: name, Strategy: s})
		}
		return entrants, nil
	}

	for _, pc := range cfg.Players {
		s, err := player.ParseStrategy(pc.Strategy)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", pc.Name, err)
		}
		if !s.IsBot() {
			continue
		}
		entrants = append(entrants, tournament.Entrant{Name: pc.Name, Strategy: s})
	}
	if len(entrants) < 2 {
		entrants = []tournament.Entrant{
			{Name: "greedy", Strategy: player.Greedy},
			{Name: "maximizing", Strategy: player.Maximizing},
		}
	}
	return entrants, nil
}
