package decorator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var bareKey = regexp.MustCompile(`([\{|,])\s*(\w+):`)

// ParseLegacy rewrites src into JSON and decodes it. The rewrite is, in order:
// newlines become spaces, double quotes are escaped, single quotes become
// double quotes, bare keys after '{', '|' or ',' are quoted, and ", }" is
// collapsed to "}". Inputs that depend on other syntax (escaped quotes,
// trailing commas followed by a newline, apostrophes in values) fail or are
// altered exactly as older builds did. Blank input yields an empty map.
func ParseLegacy(src string) (map[string]any, error) {
	if isBlank(src) {
		return map[string]any{}, nil
	}
	out := map[string]any{}
	if err := json.Unmarshal([]byte(legacyRewrite(src)), &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func legacyRewrite(src string) string {
	s := strings.ReplaceAll(src, "\n", " ")
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, `'`, `"`)
	s = bareKey.ReplaceAllString(s, `$1 "$2":`)
	return strings.ReplaceAll(s, ", }", "}")
}
