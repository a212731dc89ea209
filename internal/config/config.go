// Package config loads game settings from HCL files.
//
// A minimal file:
//
//	seed         = 42
//	target_score = 400
//
//	player "you" {
//	  strategy = "interactive"
//	}
//
//	player "bot" {
//	  strategy = "maximizing"
//	}
//
//	tournament {
//	  games   = 200
//	  workers = 4
//	  report  = "results.json"
//	}
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/triominos/internal/game"
	"github.com/lox/triominos/internal/player"
	"github.com/lox/triominos/internal/stone"
)

// Config is the complete configuration for a game or a tournament.
type Config struct {
	Seed        int64             `hcl:"seed,optional"` // 0 means seed from the clock
	TargetScore int               `hcl:"target_score,optional"`
	HandSize    int               `hcl:"hand_size,optional"`
	RoundBonus  bool              `hcl:"round_bonus,optional"`
	LogLevel    string            `hcl:"log_level,optional"`
	TurnTimeout string            `hcl:"turn_timeout,optional"`
	Players     []PlayerConfig    `hcl:"player,block"`
	Tournament  *TournamentConfig `hcl:"tournament,block"`
}

// PlayerConfig declares one seat.
type PlayerConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
}

// TournamentConfig controls batch simulation.
type TournamentConfig struct {
	Games      int    `hcl:"games,optional"`
	Workers    int    `hcl:"workers,optional"`
	Report     string `hcl:"report,optional"`
	ResultsLog string `hcl:"results_log,optional"`
}

// DefaultConfig returns a two-player game against the maximizing bot.
func DefaultConfig() *Config {
	return &Config{
		TargetScore: game.DefaultTargetScore,
		HandSize:    game.DefaultHandSize,
		LogLevel:    "info",
		TurnTimeout: "0s",
		Players: []PlayerConfig{
			{Name: "you", Strategy: "interactive"},
			{Name: "bot", Strategy: "maximizing"},
		},
		Tournament: &TournamentConfig{
			Games:   100,
			Workers: 4,
		},
	}
}

// LoadConfig reads filename. A missing file yields DefaultConfig.
func LoadConfig(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(src, filename)
}

// ParseConfig decodes HCL source and fills in defaults for omitted values.
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.TargetScore == 0 {
		config.TargetScore = defaults.TargetScore
	}
	if config.HandSize == 0 {
		config.HandSize = defaults.HandSize
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.TurnTimeout == "" {
		config.TurnTimeout = defaults.TurnTimeout
	}
	if len(config.Players) == 0 {
		config.Players = defaults.Players
	}
	for i := range config.Players {
		if config.Players[i].Strategy == "" {
			config.Players[i].Strategy = player.Maximizing.String()
		}
	}

	if config.Tournament == nil {
		config.Tournament = defaults.Tournament
	}
	if config.Tournament.Games == 0 {
		config.Tournament.Games = defaults.Tournament.Games
	}
	if config.Tournament.Workers == 0 {
		config.Tournament.Workers = defaults.Tournament.Workers
	}

	return &config, nil
}

// Validate checks the configuration for values the game cannot run with.
func (c *Config) Validate() error {
	if len(c.Players) < 2 {
		return fmt.Errorf("at least 2 players required, got %d", len(c.Players))
	}
	if c.HandSize < 1 {
		return fmt.Errorf("hand size must be positive")
	}
	if len(c.Players)*c.HandSize > stone.Count {
		return fmt.Errorf("%d players with %d stones each need more than %d stones", len(c.Players), c.HandSize, stone.Count)
	}
	if c.TargetScore <= 0 {
		return fmt.Errorf("target score must be positive")
	}

	seen := make(map[string]bool)
	for _, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("player name is required")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate player name: %s", p.Name)
		}
		seen[p.Name] = true
		if _, err := player.ParseStrategy(p.Strategy); err != nil {
			return fmt.Errorf("player %s: %w", p.Name, err)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if _, err := c.TurnTimeoutDuration(); err != nil {
		return err
	}

	if c.Tournament != nil {
		if c.Tournament.Games < 1 {
			return fmt.Errorf("tournament games must be positive")
		}
		if c.Tournament.Workers < 1 {
			return fmt.Errorf("tournament workers must be positive")
		}
	}

	return nil
}

// TurnTimeoutDuration parses TurnTimeout. Zero disables the timeout.
func (c *Config) TurnTimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.TurnTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid turn timeout %q: %w", c.TurnTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("turn timeout cannot be negative")
	}
	return d, nil
}

// HasInteractivePlayers reports whether any seat waits for outside input
func (c *Config) HasInteractivePlayers() bool {
	for _, p := range c.Players {
		if s, err := player.ParseStrategy(p.Strategy); err == nil && s == player.Interactive {
			return true
		}
	}
	return false
}
