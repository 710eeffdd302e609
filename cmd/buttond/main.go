package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run the button game server"`
	Press   PressCmd         `cmd:"" help:"Press the button, staking into the pot"`
	Payout  PayoutCmd        `cmd:"" help:"Trigger payout to the current holder"`
	Status  StatusCmd        `cmd:"" help:"Show the current game state"`
	Watch   WatchCmd         `cmd:"" help:"Watch the game in an interactive TUI"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("buttond"),
		kong.Description("A single-pot button game: last to press wins the pot"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
