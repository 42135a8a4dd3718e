package config

import "path/filepath"

// Defaults mirror the Ionic Native documentation build this tool was written for.
const (
	DefaultSourceURL    = "https://github.com/ionic-team/ionic-native.git"
	DefaultSourceName   = "ionic-native"
	DefaultSourceBranch = "v5"
	DefaultWorkspaceDir = ".plugindocs"
	DefaultDocsJSON     = "dist/docs.json"
	DefaultBaseType     = "IonicNativePlugin"
	DefaultDocsDir      = "src/pages/docs/native"
	DefaultNavFile      = "src/components/docs-menu/native-menu.ts"
	DefaultNavExport    = "nativeMenu"
	DefaultPathPrefix   = "/docs/native/"
	DefaultNPMScope     = "@ionic-native"
)

// Default returns a fully defaulted configuration.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero value with its default. It never overrides user values.
func ApplyDefaults(cfg *Config) {
	applySourceDefaults(&cfg.Source)
	if cfg.Workspace.Dir == "" {
		cfg.Workspace.Dir = DefaultWorkspaceDir
	}
	applyToolchainDefaults(&cfg.Toolchain)

	g := &cfg.Generation
	if g.DecoratorParser == "" {
		g.DecoratorParser = DecoratorParserGrammar
	}
	if g.BaseType == "" {
		g.BaseType = DefaultBaseType
	}
	if g.InheritedMatch == "" {
		g.InheritedMatch = InheritedMatchPrefix
	}

	o := &cfg.Output
	if o.DocsDir == "" {
		o.DocsDir = DefaultDocsDir
	}
	if o.NavFile == "" {
		o.NavFile = DefaultNavFile
	}
	if o.NavExport == "" {
		o.NavExport = DefaultNavExport
	}
	if o.PathPrefix == "" {
		o.PathPrefix = DefaultPathPrefix
	}
	if o.NPMScope == "" {
		o.NPMScope = DefaultNPMScope
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}

func applySourceDefaults(s *SourceConfig) {
	if s.URL == "" {
		s.URL = DefaultSourceURL
	}
	if s.Name == "" {
		s.Name = DefaultSourceName
	}
	if s.Branch == "" {
		s.Branch = DefaultSourceBranch
	}
	if s.ShallowDepth < 0 {
		s.ShallowDepth = 0
	}
}

func applyToolchainDefaults(t *ToolchainConfig) {
	if t.Install == nil {
		t.Install = []string{"npm", "i"}
	}
	if t.Build == nil {
		t.Build = []string{"npm", "run", "build"}
	}
	if t.Extract == nil {
		t.Extract = []string{"npx", "typedoc", "--json", DefaultDocsJSON, "--mode", "modules"}
	}
	if t.ExtractInputs == nil {
		t.ExtractInputs = []string{"src/@ionic-native/plugins/*/index.ts"}
	}
	if t.DocsJSON == "" {
		t.DocsJSON = DefaultDocsJSON
	}
}

// CheckoutDir is where the source repository is cloned.
func (c *Config) CheckoutDir() string {
	return filepath.Join(c.Workspace.Dir, c.Source.Name)
}

// DocsJSONPath is the absolute-or-relative path of the symbol tree inside the checkout.
func (c *Config) DocsJSONPath() string {
	if filepath.IsAbs(c.Toolchain.DocsJSON) {
		return c.Toolchain.DocsJSON
	}
	return filepath.Join(c.CheckoutDir(), c.Toolchain.DocsJSON)
}
