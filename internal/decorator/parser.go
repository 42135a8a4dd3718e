package decorator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is returned when a config literal cannot be read.
var ErrSyntax = errors.New("invalid decorator config")

// Mode names a parser implementation.
type Mode string

const (
	ModeGrammar Mode = "grammar"
	ModeLegacy  Mode = "legacy"
)

// Parser turns a decorator config literal into a generic value map.
// Values decode the way encoding/json decodes into any: strings, float64
// numbers, bools, nil, []any and map[string]any.
type Parser interface {
	Parse(src string) (map[string]any, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(src string) (map[string]any, error)

// Parse calls f(src).
func (f ParserFunc) Parse(src string) (map[string]any, error) { return f(src) }

// New returns the parser for mode. An empty mode selects the grammar parser.
func New(mode Mode) (Parser, error) {
	switch mode {
	case "", ModeGrammar:
		return ParserFunc(Parse), nil
	case ModeLegacy:
		return ParserFunc(ParseLegacy), nil
	default:
		return nil, fmt.Errorf("unknown decorator parser %q", mode)
	}
}

func isBlank(src string) bool { return strings.TrimSpace(src) == "" }

// String returns m[key] when it is a string.
func String(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// Strings returns m[key] as a string slice. A single string becomes a
// one-element slice; non-string elements are skipped.
func Strings(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
