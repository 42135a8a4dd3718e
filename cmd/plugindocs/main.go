package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/plugindocs/cmd/plugindocs/commands"
	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("plugindocs"),
		kong.Description("Generate plugin API documentation pages and the navigation menu from a TypeDoc symbol tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default(), Out: os.Stdout}
	err := parser.Run(global, cli)
	os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err))
}
