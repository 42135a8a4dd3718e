package plugin

import (
	"errors"
	"strings"

	"git.home.luguber.info/inful/plugindocs/internal/decorator"
	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/typedoc"
)

var (
	// ErrNoExportedClass is returned when a module has no exported class.
	ErrNoExportedClass = errors.New("no exported class in module")
	// ErrMissingTag is returned when a required comment tag is absent.
	ErrMissingTag = errors.New("missing comment tag")
)

// Comment tags read from the plugin class.
const (
	TagName        = "name"
	TagDescription = "description"
	TagUsage       = "usage"
)

// Decorator config keys copied into the record.
const (
	ConfigInstall   = "install"
	ConfigRepo      = "repo"
	ConfigPlugin    = "plugin"
	ConfigPlatforms = "platforms"
	configArgument  = "config"
)

// Builder builds records from module nodes.
type Builder struct {
	parser decorator.Parser
	filter InheritanceFilter
}

// Option configures a Builder.
type Option func(*Builder)

// WithParser sets the decorator config parser.
func WithParser(p decorator.Parser) Option {
	return func(b *Builder) { b.parser = p }
}

// WithFilter sets the inheritance filter for members.
func WithFilter(f InheritanceFilter) Option {
	return func(b *Builder) { b.filter = f }
}

// NewBuilder returns a builder using the grammar parser and DefaultFilter
// unless overridden.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		parser: decorator.ParserFunc(decorator.Parse),
		filter: DefaultFilter,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the record for module, whose children hold the plugin class
// and its interfaces.
func (b *Builder) Build(module *typedoc.Node) (*Record, error) {
	class, ok := SelectClass(module.Children)
	if !ok {
		return nil, b.fail(module, "", ErrNoExportedClass)
	}

	meta, err := b.metadata(class)
	if err != nil {
		return nil, b.fail(module, class.Name, err)
	}

	nameTag, ok := class.Comment.Tag(TagName)
	if !ok {
		return nil, b.fail(module, class.Name, missingTag(TagName))
	}
	descTag, ok := class.Comment.Tag(TagDescription)
	if !ok {
		return nil, b.fail(module, class.Name, missingTag(TagDescription))
	}

	rec := &Record{
		Name:         class.Name,
		PrettyName:   strings.TrimSpace(nameTag.Text),
		Description:  strings.TrimSpace(descTag.Text),
		Installation: decorator.String(meta, ConfigInstall),
		Repo:         decorator.String(meta, ConfigRepo),
		NPMName:      NPMName(module.Name),
		CordovaName:  decorator.String(meta, ConfigPlugin),
		Platforms:    decorator.Strings(meta, ConfigPlatforms),
		Members:      b.filter.Normalize(class.Children),
		Interfaces:   Interfaces(module.Children),
	}
	if rec.PrettyName == "" {
		rec.PrettyName = class.Name
	}
	if usage, ok := class.Comment.Tag(TagUsage); ok {
		// Leading indentation is kept; it may open an indented code block.
		text := strings.TrimRight(strings.TrimLeft(usage.Text, "\r\n"), " \t\r\n")
		rec.Usage = &text
	}
	return rec, nil
}

// metadata parses the config argument of the class's first decorator.
func (b *Builder) metadata(class *typedoc.Node) (map[string]any, error) {
	if len(class.Decorators) == 0 {
		return map[string]any{}, nil
	}
	src, ok := class.Decorators[0].Argument(configArgument)
	if !ok {
		return map[string]any{}, nil
	}
	return b.parser.Parse(src)
}

func (b *Builder) fail(module *typedoc.Node, class string, err error) error {
	eb := ferrors.WrapError(err, ferrors.CategoryPlugin, "cannot build plugin record").
		WithContext("module", module.Name)
	if class != "" {
		eb = eb.WithContext("class", class)
	}
	return eb.Build()
}

func missingTag(tag string) error {
	return &TagError{Tag: tag}
}

// TagError names the missing comment tag. It matches ErrMissingTag.
type TagError struct{ Tag string }

func (e *TagError) Error() string        { return "missing comment tag @" + e.Tag }
func (e *TagError) Is(target error) bool { return target == ErrMissingTag }

// NPMName derives the package name from a module name such as
// "\"cordova-plugin-foo/index\"": the first quote, the first "/index" and
// the next quote are removed.
func NPMName(moduleName string) string {
	s := strings.Replace(moduleName, `"`, "", 1)
	s = strings.Replace(s, "/index", "", 1)
	return strings.Replace(s, `"`, "", 1)
}
