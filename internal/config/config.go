// Package config loads and validates the plugindocs YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file used when --config is not given.
const DefaultPath = "plugindocs.yaml"

// Config represents the application configuration.
type Config struct {
	Source     SourceConfig     `yaml:"source"`
	Workspace  WorkspaceConfig  `yaml:"workspace"`
	Toolchain  ToolchainConfig  `yaml:"toolchain"`
	Generation GenerationConfig `yaml:"generation"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics,omitempty"`
}

// SourceConfig describes the plugin repository that is synced before each run.
type SourceConfig struct {
	URL    string      `yaml:"url"`
	Name   string      `yaml:"name"`
	Branch string      `yaml:"branch,omitempty"`
	Auth   *AuthConfig `yaml:"auth,omitempty"`
	// ShallowDepth, when >0, limits clone and fetch history (git --depth semantics).
	ShallowDepth   int  `yaml:"shallow_depth,omitempty"`
	CleanUntracked bool `yaml:"clean_untracked,omitempty"`
}

// WorkspaceConfig holds the persistent directory the checkout lives in.
type WorkspaceConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// ToolchainConfig holds the argv of every external command a run executes.
// Commands run with the checkout as working directory.
type ToolchainConfig struct {
	Install []string `yaml:"install,omitempty"`
	Build   []string `yaml:"build,omitempty"`
	Extract []string `yaml:"extract,omitempty"`
	// ExtractInputs are glob patterns, relative to the checkout, appended to Extract.
	ExtractInputs []string `yaml:"extract_inputs,omitempty"`
	// DocsJSON is the symbol tree written by Extract, relative to the checkout.
	DocsJSON string            `yaml:"docs_json,omitempty"`
	Env      map[string]string `yaml:"env,omitempty"`
}

// GenerationConfig tunes how plugin records are derived from the symbol tree.
type GenerationConfig struct {
	DecoratorParser DecoratorParser `yaml:"decorator_parser,omitempty"`
	// BaseType is the common plugin base class whose inherited members are hidden.
	BaseType       string         `yaml:"base_type,omitempty"`
	InheritedMatch InheritedMatch `yaml:"inherited_match,omitempty"`
}

// OutputConfig controls where pages and the navigation module are written.
type OutputConfig struct {
	DocsDir    string `yaml:"docs_dir,omitempty"`
	NavFile    string `yaml:"nav_file,omitempty"`
	NavExport  string `yaml:"nav_export,omitempty"`
	PathPrefix string `yaml:"path_prefix,omitempty"`
	// NPMScope prefixes the package name in install instructions.
	NPMScope string `yaml:"npm_scope,omitempty"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MetricsConfig enables the Prometheus textfile written at the end of a run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads, normalizes, defaults and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", "reason", err.Error())
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ferrors.ConfigError("configuration file not found").
			WithCategory(ferrors.CategoryNotFound).
			WithContext("path", configPath).
			Build()
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML (after ${VAR} expansion) and runs normalization, defaults and validation.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Build()
	}

	res, err := NormalizeConfig(&cfg)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		slog.Warn("Configuration normalized", "detail", w)
	}
	ApplyDefaults(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	example := Default()
	example.Source.Auth = &AuthConfig{Type: AuthTypeToken, Token: "${GITHUB_TOKEN}"}
	example.Metrics.Textfile = "plugindocs.prom"

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
