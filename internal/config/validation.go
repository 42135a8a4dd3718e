package config

import (
	"fmt"
	"regexp"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ValidateConfig rejects configurations a run cannot execute.
func ValidateConfig(cfg *Config) error {
	if cfg.Source.URL == "" {
		return invalid("source.url", "repository url is required")
	}
	if cfg.Source.Name == "" || cfg.Source.Name == "." || cfg.Source.Name == ".." {
		return invalid("source.name", "must name a directory inside the workspace")
	}
	if err := validateAuth(cfg.Source.Auth); err != nil {
		return err
	}
	if len(cfg.Toolchain.Extract) == 0 {
		return invalid("toolchain.extract", "extraction command is required")
	}
	if cfg.Toolchain.DocsJSON == "" {
		return invalid("toolchain.docs_json", "symbol tree path is required")
	}
	if !identPattern.MatchString(cfg.Output.NavExport) {
		return invalid("output.nav_export", fmt.Sprintf("%q is not a valid identifier", cfg.Output.NavExport))
	}
	if cfg.Output.DocsDir == "" || cfg.Output.NavFile == "" {
		return invalid("output", "docs_dir and nav_file are required")
	}
	if cfg.Generation.BaseType == "" {
		return invalid("generation.base_type", "base type is required")
	}
	return nil
}

func validateAuth(a *AuthConfig) error {
	if a.IsZero() {
		return nil
	}
	switch a.Type {
	case AuthTypeToken:
		if a.Token == "" {
			return invalid("source.auth.token", "token authentication requires a token")
		}
	case AuthTypeBasic:
		if a.Username == "" || a.Password == "" {
			return invalid("source.auth", "basic authentication requires username and password")
		}
	case AuthTypeSSH:
		if a.KeyPath == "" {
			return invalid("source.auth.key_path", "ssh authentication requires key_path")
		}
	default:
		return invalid("source.auth.type", fmt.Sprintf("unsupported auth type %q", a.Type))
	}
	return nil
}

func invalid(field, reason string) error {
	return ferrors.ValidationError("invalid configuration: "+reason).
		WithContext("field", field).
		Build()
}
