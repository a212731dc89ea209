package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"
	"github.com/lox/triominos/internal/console"
	"github.com/lox/triominos/internal/game"
	"github.com/lox/triominos/internal/player"
)

// PlayCmd plays one game with the players from the config file.
type PlayCmd struct {
	Quiet bool `help:"Only print round summaries, not every turn"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	cfg, err := globals.load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	interactive := cfg.HasInteractivePlayers()

	// The terminal owns the screen while humans play, so logs only go to
	// --log-file then.
	fallback := io.Writer(os.Stderr)
	if interactive {
		fallback = io.Discard
	}
	logOut, closeLog, err := globals.logOutput(fallback)
	if err != nil {
		return err
	}
	defer closeLog()

	logger, err := setupLogger(cfg.LogLevel, logOut)
	if err != nil {
		return err
	}
	timeout, err := cfg.TurnTimeoutDuration()
	if err != nil {
		return err
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	render := console.NewRenderer(os.Stdout, !globals.NoColor)
	emit := func(a ...any) { fmt.Println(a...) }
	closeTerminal := func() {}

	var prompt player.Prompt
	if interactive {
		terminal := console.NewTerminal(os.Stdin, os.Stdout, render, tea.WithAltScreen())
		terminal.Start()
		go func() {
			<-terminal.Done()
			cancel()
		}()
		closeTerminal = func() { _ = terminal.Close() }
		defer closeTerminal()

		emit = terminal.Println
		prompt = terminal.Prompt
		if timeout > 0 {
			prompt = player.WithTimeout(prompt, quartz.NewReal(), timeout)
		}
	}

	players := make([]*player.Player, 0, len(cfg.Players))
	for _, pc := range cfg.Players {
		strategy, err := player.ParseStrategy(pc.Strategy)
		if err != nil {
			return err
		}
		players = append(players, player.New(pc.Name, strategy,
			player.WithPrompt(prompt),
			player.WithLogger(logger)))
	}

	opts := []game.Option{
		game.WithSeed(cfg.Seed),
		game.WithLogger(logger),
		game.WithHandSize(cfg.HandSize),
		game.WithTargetScore(cfg.TargetScore),
		game.WithRoundBonus(cfg.RoundBonus),
		game.WithRoundObserver(func(r game.RoundResult) {
			emit(render.Round(r))
		}),
	}
	if !c.Quiet {
		opts = append(opts, game.WithTurnObserver(func(e game.TurnEvent) {
			emit(render.Turn(e))
		}))
	}

	g, err := game.New(players, opts...)
	if err != nil {
		return err
	}
	logger.Info("game started", "game", g.ID, "seed", cfg.Seed, "players", len(players))

	result, err := g.Play(ctx)
	// Leave the alternate screen before printing the final table.
	closeTerminal()
	if errors.Is(err, context.Canceled) {
		fmt.Println(render.Scores(g.Scores()))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println(render.Scores(result.Scores))
	if result.Truncated {
		fmt.Printf("game stopped early, %s leads\n", result.Winner)
	} else {
		fmt.Printf("%s wins\n", result.Winner)
	}
	return nil
}
