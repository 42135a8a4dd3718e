package commands

import (
	"context"

	"git.home.luguber.info/inful/plugindocs/internal/generator"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Input string `short:"i" type:"existingfile" help:"Symbol tree JSON (default: toolchain.docs_json inside the checkout)"`
}

func (c *RenderCmd) Run(g *Global, root *CLI) error {
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
	input := c.Input
	if input == "" {
		input = cfg.DocsJSONPath()
	}
	_, err = gen.RenderFile(context.Background(), input)
	return err
}
