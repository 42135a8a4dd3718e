package commands

import (
	"encoding/json"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/generator"
	"git.home.luguber.info/inful/plugindocs/internal/typedoc"
)

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Plugin string `arg:"" help:"npm name (e.g. camera) or class name (e.g. Camera) of the plugin"`
	Input  string `short:"i" type:"existingfile" help:"Symbol tree JSON (default: toolchain.docs_json inside the checkout)"`
}

func (c *InspectCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	gen, err := generator.New(cfg, generator.WithLogger(g.logger()))
	if err != nil {
		return err
	}
	input := c.Input
	if input == "" {
		input = cfg.DocsJSONPath()
	}
	tree, err := typedoc.Load(input)
	if err != nil {
		return err
	}
	rec, err := gen.Inspect(tree, c.Plugin)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(g.out())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode record").Build()
	}
	return nil
}
