package config

import (
	"fmt"
	"strings"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
)

// NormalizationResult captures adjustments & warnings from the normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated fields prior to default application.
// It mutates the provided config in-place; unknown values are reset so defaults apply.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, ferrors.InternalError("config nil").Build()
	}
	res := &NormalizationResult{}

	normalizeEnum(res, "generation.decorator_parser", &c.Generation.DecoratorParser, NormalizeDecoratorParser, DecoratorParserGrammar)
	normalizeEnum(res, "generation.inherited_match", &c.Generation.InheritedMatch, NormalizeInheritedMatch, InheritedMatchPrefix)
	normalizeEnum(res, "logging.level", &c.Logging.Level, NormalizeLogLevel, LogLevelInfo)
	normalizeEnum(res, "logging.format", &c.Logging.Format, NormalizeLogFormat, LogFormatText)

	if c.Source.Auth != nil && c.Source.Auth.Type != "" {
		t := AuthType(strings.ToLower(strings.TrimSpace(string(c.Source.Auth.Type))))
		if t != c.Source.Auth.Type {
			res.Warnings = append(res.Warnings, warnChanged("source.auth.type", c.Source.Auth.Type, t))
			c.Source.Auth.Type = t
		}
	}
	if p := strings.TrimSpace(c.Output.PathPrefix); p != "" && !strings.HasSuffix(p, "/") {
		res.Warnings = append(res.Warnings, warnChanged("output.path_prefix", p, p+"/"))
		c.Output.PathPrefix = p + "/"
	}
	return res, nil
}

func normalizeEnum[T ~string](res *NormalizationResult, field string, v *T, normalize func(string) T, def T) {
	raw := string(*v)
	if strings.TrimSpace(raw) == "" {
		*v = ""
		return
	}
	if n := normalize(raw); n != "" {
		if n != *v {
			res.Warnings = append(res.Warnings, warnChanged(field, *v, n))
			*v = n
		}
		return
	}
	res.Warnings = append(res.Warnings, warnUnknown(field, raw, string(def)))
	*v = def
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
