// Package tournament plays many seeded bot-only games in parallel and
// aggregates the results. Every game runs on one goroutine and owns its
// board, pile and players.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/triominos/internal/fileutil"
	"github.com/lox/triominos/internal/game"
	"github.com/lox/triominos/internal/player"
	"github.com/lox/triominos/internal/randutil"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Entrant is one seat in every game.
type Entrant struct {
	Name     string
	Strategy player.Strategy
}

// Config holds configuration for running a tournament
type Config struct {
	Games       int
	Workers     int
	Seed        int64
	Entrants    []Entrant
	HandSize    int
	TargetScore int
	RoundBonus  bool
	// CheckInvariants validates the stone partition after every turn.
	CheckInvariants bool
	Logger          *log.Logger
	// ResultsLog receives one JSON line per finished game.
	ResultsLog io.Writer
}

// Runner runs a tournament.
type Runner struct {
	config  Config
	results zerolog.Logger
}

// New validates the configuration and returns a runner.
func New(config Config) (*Runner, error) {
	if config.Games < 1 {
		return nil, errors.New("at least 1 game required")
	}
	if len(config.Entrants) < 2 {
		return nil, fmt.Errorf("%d entrants: %w", len(config.Entrants), game.ErrTooFewPlayers)
	}
	seen := make(map[string]bool)
	for _, e := range config.Entrants {
		if !e.Strategy.IsBot() {
			return nil, fmt.Errorf("entrant %s: %s players cannot be simulated", e.Name, e.Strategy)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate entrant %s", e.Name)
		}
		seen[e.Name] = true
	}
	if config.Workers < 1 {
		config.Workers = runtime.NumCPU()
	}
	config.Workers = min(config.Workers, config.Games)
	if config.HandSize == 0 {
		config.HandSize = game.DefaultHandSize
	}
	if config.TargetScore == 0 {
		config.TargetScore = game.DefaultTargetScore
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}

	results := zerolog.Nop()
	if config.ResultsLog != nil {
		results = zerolog.New(config.ResultsLog)
	}

	return &Runner{config: config, results: results}, nil
}

// Run plays every game and returns the aggregate. Results do not depend on
// the number of workers.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan int)
	records := make(chan GameRecord, r.config.Games)

	g.Go(func() error {
		defer close(jobs)
		for i := range r.config.Games {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < r.config.Workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				record, err := r.playGame(ctx, i)
				if err != nil {
					return err
				}
				records <- record
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(records)

	collected := make([]GameRecord, 0, r.config.Games)
	for record := range records {
		collected = append(collected, record)
	}
	slices.SortFunc(collected, func(a, b GameRecord) int { return a.Index - b.Index })

	summary := &Summary{Seed: r.config.Seed}
	for _, e := range r.config.Entrants {
		summary.Players = append(summary.Players, &PlayerStats{Name: e.Name, Strategy: e.Strategy.String()})
	}
	for _, record := range collected {
		summary.Add(record)
		r.logResult(record)
	}

	if err := summary.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	r.config.Logger.Info("tournament finished",
		"games", summary.Games,
		"workers", r.config.Workers,
		"truncated", summary.Truncated)

	return summary, nil
}

// playGame plays game i. Seats rotate with i so no entrant always sits
// first.
func (r *Runner) playGame(ctx context.Context, i int) (GameRecord, error) {
	seed := randutil.Derive(r.config.Seed, i)

	n := len(r.config.Entrants)
	players := make([]*player.Player, n)
	for seat := range n {
		e := r.config.Entrants[(seat+i)%n]
		players[seat] = player.New(e.Name, e.Strategy)
	}

	g, err := game.New(players,
		game.WithSeed(seed),
		game.WithHandSize(r.config.HandSize),
		game.WithTargetScore(r.config.TargetScore),
		game.WithRoundBonus(r.config.RoundBonus),
		game.WithInvariantChecks(r.config.CheckInvariants))
	if err != nil {
		return GameRecord{}, fmt.Errorf("game %d: %w", i, err)
	}

	result, err := g.Play(ctx)
	if err != nil {
		return GameRecord{}, fmt.Errorf("game %d (seed %d): %w", i, seed, err)
	}

	record := GameRecord{
		Index:     i,
		Seed:      seed,
		GameID:    result.GameID,
		Rounds:    len(result.Rounds),
		Winner:    result.Winner,
		Scores:    make(map[string]int, n),
		Truncated: result.Truncated,
	}
	for _, s := range result.Scores {
		record.Scores[s.Player] = s.Score
	}

	r.config.Logger.Debug("game finished", "game", i, "winner", record.Winner, "rounds", record.Rounds)
	return record, nil
}

func (r *Runner) logResult(record GameRecord) {
	scores := zerolog.Dict()
	for _, e := range r.config.Entrants {
		scores = scores.Int(e.Name, record.Scores[e.Name])
	}
	r.results.Info().
		Int("game", record.Index).
		Int64("seed", record.Seed).
		Str("game_id", record.GameID).
		Int("rounds", record.Rounds).
		Str("winner", record.Winner).
		Bool("truncated", record.Truncated).
		Dict("scores", scores).
		Msg("game finished")
}

// WriteReport writes the summary as JSON to path atomically.
func (s *Summary) WriteReport(path string) error {
	type playerReport struct {
		*PlayerStats
		Mean    float64 `json:"mean_score"`
		StdDev  float64 `json:"stddev_score"`
		WinRate float64 `json:"win_rate"`
	}
	report := struct {
		*Summary
		MeanRounds float64        `json:"mean_rounds"`
		Players    []playerReport `json:"players"`
	}{Summary: s, MeanRounds: s.MeanRounds()}
	for _, p := range s.Players {
		report.Players = append(report.Players, playerReport{
			PlayerStats: p,
			Mean:        p.Mean(),
			StdDev:      p.StdDev(),
			WinRate:     p.WinRate(),
		})
	}

	if err := fileutil.WriteJSONAtomic(path, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
