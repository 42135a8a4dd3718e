package toolchain

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/plugindocs/internal/config"
	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
)

// Toolchain runs the configured commands inside a checkout.
type Toolchain struct {
	runner Runner
	cfg    config.ToolchainConfig
	dir    string
	logger *slog.Logger
}

// New returns a Toolchain running cfg's commands in dir.
func New(runner Runner, cfg config.ToolchainConfig, dir string, logger *slog.Logger) *Toolchain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toolchain{runner: runner, cfg: cfg, dir: dir, logger: logger}
}

// Install runs the dependency install command.
func (t *Toolchain) Install(ctx context.Context) error {
	return t.run(ctx, "install", t.cfg.Install)
}

// Build runs the build command.
func (t *Toolchain) Build(ctx context.Context) error {
	return t.run(ctx, "build", t.cfg.Build)
}

// Extract runs the extraction command with the expanded input globs and
// returns the path of the symbol tree it writes.
func (t *Toolchain) Extract(ctx context.Context) (string, error) {
	inputs, err := ExpandInputs(t.dir, t.cfg.ExtractInputs)
	if err != nil {
		return "", err
	}
	args := append(append([]string{}, t.cfg.Extract...), inputs...)
	if err := t.run(ctx, "extract", args); err != nil {
		return "", err
	}
	if filepath.IsAbs(t.cfg.DocsJSON) {
		return t.cfg.DocsJSON, nil
	}
	return filepath.Join(t.dir, t.cfg.DocsJSON), nil
}

func (t *Toolchain) run(ctx context.Context, step string, args []string) error {
	if len(args) == 0 {
		t.logger.Debug("Toolchain step has no command", logfields.Stage(step))
		return nil
	}
	cmd := Command{Args: args, Dir: t.dir, Env: Environ(t.cfg.Env)}
	t.logger.Info("Running toolchain step", logfields.Stage(step), logfields.Command(cmd.String()))
	res, err := t.runner.Run(ctx, cmd)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryToolchain, "toolchain step failed").
			WithContext("step", step).
			WithContext("command", cmd.String()).
			Build()
	}
	t.logger.Info("Toolchain step finished", logfields.Stage(step), logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return nil
}

// ExpandInputs expands glob patterns relative to dir. Matches are returned
// relative to dir, sorted and deduplicated. Patterns matching nothing are
// an error.
func ExpandInputs(dir string, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, p))
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid extraction input pattern").
				WithContext("pattern", p).
				Build()
		}
		if len(matches) == 0 {
			return nil, ferrors.ToolchainError("extraction input pattern matched no files").
				WithContext("pattern", p).
				WithContext("dir", dir).
				Build()
		}
		for _, m := range matches {
			rel, err := filepath.Rel(dir, m)
			if err != nil {
				rel = m
			}
			rel = filepath.ToSlash(rel)
			if !seen[rel] {
				seen[rel] = true
				out = append(out, rel)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Environ turns env into KEY=VALUE pairs sorted by key.
func Environ(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
