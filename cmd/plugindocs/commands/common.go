package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/plugindocs/internal/config"
	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
	"git.home.luguber.info/inful/plugindocs/internal/metrics"
)

// Global is shared state passed to every subcommand.
type Global struct {
	Logger *slog.Logger
	// Out receives command output meant for the user (inspect JSON, init messages).
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"plugindocs.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"1" help:"Sync the plugin repository, build it, extract symbols and write pages and navigation"`
	Render   RenderCmd   `cmd:"" help:"Write pages and navigation from an existing symbol tree (no git, no build)"`
	Inspect  InspectCmd  `cmd:"" help:"Print the normalized record of one plugin as JSON"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; sets up logging until the config is read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig reads the configuration at root.Config. A missing file at the
// default path yields the built-in defaults; an explicit path must exist.
// The returned config's logging settings replace the global logger.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		if root.Config != config.DefaultPath || !ferrors.HasCategory(err, ferrors.CategoryNotFound) {
			return nil, err
		}
		slog.Info("No configuration file, using defaults", logfields.Path(root.Config))
		cfg = config.Default()
	}
	logger := cfg.Logging.NewLogger(os.Stderr, root.Verbose)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return cfg, nil
}

// newRecorder returns a Prometheus recorder when a textfile is configured.
func newRecorder(cfg *config.Config) (metrics.Recorder, func(*slog.Logger)) {
	if cfg.Metrics.Textfile == "" {
		return metrics.NoopRecorder{}, func(*slog.Logger) {}
	}
	rec := metrics.NewPrometheusRecorder(prom.NewRegistry())
	flush := func(logger *slog.Logger) {
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
			return
		}
		logger.Debug("Metrics written", logfields.Path(cfg.Metrics.Textfile))
	}
	return rec, flush
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
