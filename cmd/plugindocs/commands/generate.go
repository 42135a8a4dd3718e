package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/plugindocs/internal/generator"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	SkipSync  bool `name:"skip-sync" help:"Reuse the existing checkout without fetching"`
	SkipBuild bool `name:"skip-build" help:"Skip the install and build commands"`
	Ephemeral bool `help:"Clone into a temporary workspace that is removed afterwards"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	recorder, flush := newRecorder(cfg)
	defer flush(g.logger())

	gen, err := generator.New(cfg, generator.WithLogger(g.logger()), generator.WithRecorder(recorder))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	_, err = gen.Run(ctx, generator.RunOptions{
		SkipSync:  c.SkipSync,
		SkipBuild: c.SkipBuild,
		Ephemeral: c.Ephemeral,
	})
	return err
}
