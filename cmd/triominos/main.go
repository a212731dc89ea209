package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"triominos.hcl" type:"path" help:"HCL config file (defaults are used when it does not exist)"`
	LogLevel string `help:"Log level (debug, info, warn, error), overrides the config file"`
	Seed     *int64 `help:"Deterministic RNG seed, overrides the config file"`
	NoColor  bool   `help:"Disable colored output"`
	LogFile  string `type:"path" help:"Write logs to this file instead of stderr"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play a game in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Run many bot-only games and report statistics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("triominos"),
		kong.Description("Triangular tile-matching game for humans and bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
