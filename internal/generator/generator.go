package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"git.home.luguber.info/inful/plugindocs/internal/config"
	"git.home.luguber.info/inful/plugindocs/internal/decorator"
	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/git"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
	"git.home.luguber.info/inful/plugindocs/internal/markdown"
	"git.home.luguber.info/inful/plugindocs/internal/metrics"
	"git.home.luguber.info/inful/plugindocs/internal/nav"
	"git.home.luguber.info/inful/plugindocs/internal/plugin"
	"git.home.luguber.info/inful/plugindocs/internal/render"
	"git.home.luguber.info/inful/plugindocs/internal/toolchain"
	"git.home.luguber.info/inful/plugindocs/internal/typedoc"
	"git.home.luguber.info/inful/plugindocs/internal/workspace"
)

// Stage names used in logs, metrics and the report.
const (
	StageWorkspace = "workspace"
	StageSync      = "sync"
	StageInstall   = "install"
	StageBuild     = "build"
	StageExtract   = "extract"
	StageLoad      = "load"
	StageGenerate  = "generate"
	StageNav       = "nav"
)

// Run outcomes recorded by the metrics recorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Syncer brings a checkout to the configured branch head.
type Syncer interface {
	SyncBranch(ctx context.Context, path string) (git.SyncResult, error)
}

// RunOptions modifies a full run.
type RunOptions struct {
	// SkipSync reuses the existing checkout as is.
	SkipSync bool
	// SkipBuild skips the install and build commands; extraction still runs.
	SkipBuild bool
	// Ephemeral clones into a temporary workspace removed after the run.
	Ephemeral bool
}

// Generator turns a symbol tree into pages and a navigation manifest.
type Generator struct {
	cfg       *config.Config
	logger    *slog.Logger
	recorder  metrics.Recorder
	runner    toolchain.Runner
	syncer    Syncer
	workspace *workspace.Manager
	builder   *plugin.Builder
	writer    *render.Writer
	now       func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithRunner replaces the process runner used for toolchain commands.
func WithRunner(r toolchain.Runner) Option {
	return func(g *Generator) { g.runner = r }
}

// WithSyncer replaces the git client.
func WithSyncer(s Syncer) Option {
	return func(g *Generator) { g.syncer = s }
}

// WithWorkspace sets the workspace manager, overriding RunOptions.Ephemeral.
func WithWorkspace(m *workspace.Manager) Option {
	return func(g *Generator) { g.workspace = m }
}

// New wires a generator from cfg. cfg must already carry defaults.
func New(cfg *config.Config, opts ...Option) (*Generator, error) {
	if cfg == nil {
		return nil, ferrors.ConfigError("config required").Build()
	}
	g := &Generator{
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	parser, err := decorator.New(decorator.Mode(cfg.Generation.DecoratorParser))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "decorator parser").Build()
	}
	g.builder = plugin.NewBuilder(
		plugin.WithParser(parser),
		plugin.WithFilter(plugin.InheritanceFilter{
			BaseType: cfg.Generation.BaseType,
			Exact:    cfg.Generation.InheritedMatch == config.InheritedMatchExact,
		}),
	)

	renderer, err := render.New(
		render.WithPathPrefix(cfg.Output.PathPrefix),
		render.WithNPMScope(cfg.Output.NPMScope),
	)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "load page template").Build()
	}
	g.writer = render.NewWriter(cfg.Output.DocsDir, renderer)

	if g.runner == nil {
		g.runner = &toolchain.ExecRunner{Logger: g.logger}
	}
	if g.syncer == nil {
		g.syncer = git.NewClient(cfg.Source, g.logger)
	}
	return g, nil
}

// Run executes the full pipeline.
func (g *Generator) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	start := g.now()
	rep := &Report{}
	err := g.run(ctx, opts, rep)
	g.finish(rep, start, err)
	return rep, err
}

func (g *Generator) run(ctx context.Context, opts RunOptions, rep *Report) error {
	ws := g.workspace
	if ws == nil {
		if opts.Ephemeral {
			ws = workspace.NewManager("")
		} else {
			ws = workspace.NewPersistentManager(g.cfg.Workspace.Dir)
		}
	}
	if err := g.stage(ctx, rep, StageWorkspace, ws.Create); err != nil {
		return err
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			g.logger.Warn("Failed to cleanup workspace", logfields.Error(err))
		}
	}()

	checkout, err := ws.CheckoutPath(g.cfg.Source.Name)
	if err != nil {
		return err
	}

	if opts.SkipSync && !ws.Persistent() {
		return ferrors.ValidationError("cannot skip sync with an ephemeral workspace").Build()
	}
	if opts.SkipSync {
		g.recorder.IncStageResult(StageSync, metrics.ResultSkipped)
		if _, err := os.Stat(checkout); err != nil {
			return ferrors.NewError(ferrors.CategoryNotFound, "checkout missing, run without --skip-sync").
				WithCause(err).
				WithContext("path", checkout).
				Build()
		}
	} else if err := g.stage(ctx, rep, StageSync, func() error {
		return g.sync(ctx, checkout, rep)
	}); err != nil {
		return err
	}

	tc := toolchain.New(g.runner, g.cfg.Toolchain, checkout, g.logger)
	if opts.SkipBuild {
		g.recorder.IncStageResult(StageInstall, metrics.ResultSkipped)
		g.recorder.IncStageResult(StageBuild, metrics.ResultSkipped)
	} else {
		if err := g.stage(ctx, rep, StageInstall, func() error { return tc.Install(ctx) }); err != nil {
			return err
		}
		if err := g.stage(ctx, rep, StageBuild, func() error { return tc.Build(ctx) }); err != nil {
			return err
		}
	}

	var docsPath string
	if err := g.stage(ctx, rep, StageExtract, func() error {
		var err error
		docsPath, err = tc.Extract(ctx)
		return err
	}); err != nil {
		return err
	}
	return g.renderFile(ctx, docsPath, rep)
}

func (g *Generator) sync(ctx context.Context, checkout string, rep *Report) error {
	res, err := g.syncer.SyncBranch(ctx, checkout)
	g.recorder.ObserveSyncDuration(g.cfg.Source.Name, res.Duration, err == nil)
	if err != nil {
		return err
	}
	rep.Commit = res.Commit
	return nil
}

// RenderFile generates pages and the navigation manifest from an existing
// symbol tree file. No external process runs.
func (g *Generator) RenderFile(ctx context.Context, path string) (*Report, error) {
	start := g.now()
	rep := &Report{}
	err := g.renderFile(ctx, path, rep)
	g.finish(rep, start, err)
	return rep, err
}

func (g *Generator) renderFile(ctx context.Context, path string, rep *Report) error {
	var tree *typedoc.Node
	if err := g.stage(ctx, rep, StageLoad, func() error {
		var err error
		tree, err = typedoc.Load(path)
		return err
	}); err != nil {
		return err
	}

	menu := nav.New(g.cfg.Output.PathPrefix)
	if err := g.stage(ctx, rep, StageGenerate, func() error {
		return g.Generate(tree, menu, rep)
	}); err != nil {
		return err
	}

	return g.stage(ctx, rep, StageNav, func() error {
		if err := menu.Write(g.cfg.Output.NavFile, g.cfg.Output.NavExport); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write navigation manifest").
				WithContext("path", g.cfg.Output.NavFile).
				Build()
		}
		g.logger.Info("Navigation written", logfields.Path(g.cfg.Output.NavFile), logfields.Count(menu.Len()))
		return nil
	})
}

// Generate builds, renders and writes the page of every module in tree and
// records each one in menu. The first failing module aborts the loop.
func (g *Generator) Generate(tree *typedoc.Node, menu *nav.Map, rep *Report) error {
	if rep == nil {
		rep = &Report{}
	}
	for _, module := range tree.Children {
		rec, err := g.builder.Build(module)
		if err != nil {
			return err
		}
		res, err := g.writer.Write(rec)
		if err != nil {
			return err
		}
		rep.Plugins++
		if res.Changed {
			rep.Written++
			g.recorder.IncPageResult(metrics.PageWritten)
			g.logger.Debug("Page written", logfields.Plugin(rec.NPMName), logfields.Path(res.Path))
		} else {
			rep.Unchanged++
			g.recorder.IncPageResult(metrics.PageUnchanged)
			g.logger.Debug("Page unchanged", logfields.Plugin(rec.NPMName), logfields.Path(res.Path))
		}

		if missing := markdown.UnresolvedReferences(res.Page.Body); len(missing) > 0 {
			msg := fmt.Sprintf("%s: no table for %s", rec.NPMName, strings.Join(missing, ", "))
			rep.warn(msg)
			g.logger.Warn("Unresolved table references", logfields.Plugin(rec.NPMName), slog.Any("types", missing))
		}

		if prev, replaced := menu.Add(rec.PrettyName, rec.NPMName); replaced {
			msg := fmt.Sprintf("%q now points to %s instead of %s", rec.PrettyName, rec.NPMName, prev)
			rep.warn(msg)
			g.logger.Warn("Duplicate navigation entry", logfields.Plugin(rec.NPMName), slog.String("previous", prev))
		}
	}
	g.recorder.SetPlugins(rep.Plugins)
	return nil
}

// Inspect builds the record of the module whose npm name or class name is name.
func (g *Generator) Inspect(tree *typedoc.Node, name string) (*plugin.Record, error) {
	for _, module := range tree.Children {
		if plugin.NPMName(module.Name) == name {
			return g.builder.Build(module)
		}
		if class, ok := plugin.SelectClass(module.Children); ok && class.Name == name {
			return g.builder.Build(module)
		}
	}
	return nil, ferrors.NewError(ferrors.CategoryNotFound, "plugin not found in symbol tree").
		WithContext("plugin", name).
		Build()
}

func (g *Generator) stage(ctx context.Context, rep *Report, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	start := g.now()
	g.logger.Debug("Stage started", logfields.Stage(name))
	err := fn()
	d := g.now().Sub(start)
	rep.Stages = append(rep.Stages, StageTiming{Name: name, Duration: d})
	g.recorder.ObserveStageDuration(name, d)
	if err != nil {
		g.recorder.IncStageResult(name, metrics.ResultFatal)
		g.logger.Error("Stage failed", logfields.Stage(name), logfields.Error(err))
		return err
	}
	g.recorder.IncStageResult(name, metrics.ResultSuccess)
	g.logger.Info("Stage finished", logfields.Stage(name), logfields.DurationMS(float64(d.Milliseconds())))
	return nil
}

func (g *Generator) finish(rep *Report, start time.Time, err error) {
	rep.Duration = g.now().Sub(start)
	g.recorder.ObserveRunDuration(rep.Duration)
	if err != nil {
		g.recorder.IncRunOutcome(OutcomeFailed)
		if errors.Is(err, context.Canceled) {
			g.logger.Warn("Run canceled", logfields.DurationMS(float64(rep.Duration.Milliseconds())))
		}
		return
	}
	g.recorder.IncRunOutcome(OutcomeSuccess)
	g.logger.Info(fmt.Sprintf("Plugin docs generated in %dms", rep.Duration.Milliseconds()),
		logfields.Count(rep.Plugins),
		slog.Int("written", rep.Written),
		slog.Int("unchanged", rep.Unchanged),
		logfields.Commit(rep.Commit))
}
