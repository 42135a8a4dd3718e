package decorator

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cameraConfig = `{
  pluginName: 'Camera',
  plugin: 'cordova-plugin-camera',
  pluginRef: 'navigator.camera',
  repo: 'https://github.com/apache/cordova-plugin-camera',
  platforms: ['Android', 'Browser', 'iOS', 'Windows'],
}`

func TestParsers_AgreeOnTypicalConfig(t *testing.T) {
	want := map[string]any{
		"pluginName": "Camera",
		"plugin":     "cordova-plugin-camera",
		"pluginRef":  "navigator.camera",
		"repo":       "https://github.com/apache/cordova-plugin-camera",
		"platforms":  []any{"Android", "Browser", "iOS", "Windows"},
	}
	for _, mode := range []Mode{ModeGrammar, ModeLegacy} {
		t.Run(string(mode), func(t *testing.T) {
			p, err := New(mode)
			require.NoError(t, err)
			got, err := p.Parse(cameraConfig)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParsers_BlankInputYieldsEmptyMap(t *testing.T) {
	for _, fn := range []ParserFunc{Parse, ParseLegacy} {
		for _, src := range []string{"", "  \n\t"} {
			got, err := fn(src)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		}
	}
}

func TestParsers_EmptyObject(t *testing.T) {
	for _, fn := range []ParserFunc{Parse, ParseLegacy} {
		got, err := fn("{}")
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestParsers_AgreeOnWordKeys(t *testing.T) {
	tests := []struct {
		src  string
		want map[string]any
	}{
		{src: `{ 1: 'a' }`, want: map[string]any{"1": "a"}},
		{src: `{ plugin: 'x', 2: 'y', }`, want: map[string]any{"plugin": "x", "2": "y"}},
		{src: `{ 2fa: 'on', k_9: 'off' }`, want: map[string]any{"2fa": "on", "k_9": "off"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			for _, fn := range []ParserFunc{Parse, ParseLegacy} {
				got, err := fn(tt.src)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// Both parsers must agree on the subset the legacy rewrite handles: \w+ keys,
// single-quoted values without quotes, commas or colons, and an optional
// trailing comma directly before the closing brace.
func TestParsers_AgreeOnGeneratedSubset(t *testing.T) {
	keys := []string{"a", "_x", "plugin", "pluginRef", "1", "42", "2fa", "k_9"}
	const alphabet = "abcXYZ019 ./_-"
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		n := rng.Intn(len(keys)) + 1
		perm := rng.Perm(len(keys))[:n]
		want := map[string]any{}
		var b strings.Builder
		b.WriteString("{ ")
		for j, idx := range perm {
			if j > 0 {
				if rng.Intn(2) == 0 {
					b.WriteString(", ")
				} else {
					b.WriteString(",\n")
				}
			}
			val := make([]byte, rng.Intn(12))
			for k := range val {
				val[k] = alphabet[rng.Intn(len(alphabet))]
			}
			b.WriteString(keys[idx] + ": '" + string(val) + "'")
			want[keys[idx]] = string(val)
		}
		switch rng.Intn(3) {
		case 0:
			b.WriteString(", }")
		case 1:
			b.WriteString(",\n}")
		default:
			b.WriteString(" }")
		}
		src := b.String()

		for _, fn := range []ParserFunc{Parse, ParseLegacy} {
			got, err := fn(src)
			require.NoError(t, err, src)
			assert.Equal(t, want, got, src)
		}
	}
}

func TestParse_Literals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want map[string]any
	}{
		{
			name: "quoted keys",
			src:  `{"plugin": "a", 'repo': 'b'}`,
			want: map[string]any{"plugin": "a", "repo": "b"},
		},
		{
			name: "numbers bools and null",
			src:  `{ a: 1, b: -2.5, c: true, d: false, e: null, f: undefined }`,
			want: map[string]any{"a": 1.0, "b": -2.5, "c": true, "d": false, "e": nil, "f": nil},
		},
		{
			name: "nested values",
			src:  `{ install: { variables: ['API_KEY', 'SECRET'] }, empty: [] }`,
			want: map[string]any{
				"install": map[string]any{"variables": []any{"API_KEY", "SECRET"}},
				"empty":   []any{},
			},
		},
		{
			name: "apostrophe inside double quotes",
			src:  `{ description: "Don't panic" }`,
			want: map[string]any{"description": "Don't panic"},
		},
		{
			name: "escapes",
			src:  `{ a: 'it\'s', b: "line\nbreak", c: 'é' }`,
			want: map[string]any{"a": "it's", "b": "line\nbreak", "c": "é"},
		},
		{
			name: "template string",
			src:  "{ install: `ionic cordova plugin add x` }",
			want: map[string]any{"install": "ionic cordova plugin add x"},
		},
		{
			name: "comments",
			src: `{
  // the npm package
  plugin: 'x', /* inline */ repo: 'y'
}`,
			want: map[string]any{"plugin": "x", "repo": "y"},
		},
		{
			name: "duplicate key keeps last",
			src:  `{ a: 'one', a: 'two' }`,
			want: map[string]any{"a": "two"},
		},
		{
			name: "install with embedded double quotes",
			src:  `{ install: 'ionic cordova plugin add x --variable KEY="value"' }`,
			want: map[string]any{"install": `ionic cordova plugin add x --variable KEY="value"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, src := range []string{
		`{ plugin: }`,
		`{ plugin 'x' }`,
		`[1, 2]`,
		`{ plugin: 'x',, }`,
		`{ plugin: 'x'`,
		`{ plugin: someIdentifier }`,
	} {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestParseLegacy_Rewrite(t *testing.T) {
	assert.Equal(t,
		`{ "plugin": "x", "install": "add --variable K=\"v\""}`,
		legacyRewrite(`{ plugin: 'x', install: 'add --variable K="v"', }`),
	)
	got, err := ParseLegacy(`{ plugin: 'x', install: 'add --variable K="v"', }`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"plugin": "x", "install": `add --variable K="v"`}, got)
}

func TestParseLegacy_KeepsHistoricalFailures(t *testing.T) {
	// An apostrophe inside a double-quoted value breaks the rewrite.
	_, err := ParseLegacy(`{ description: "Don't panic" }`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)

	// A trailing comma before a newline-indented brace is not collapsed.
	_, err = ParseLegacy("{\n  plugin: 'x',\n  }")
	require.Error(t, err)
}

func TestNew_UnknownMode(t *testing.T) {
	_, err := New("yaml")
	require.Error(t, err)
}

func TestStrings(t *testing.T) {
	m := map[string]any{
		"list":   []any{"Android", 1.0, "iOS"},
		"single": "Browser",
		"num":    3.0,
	}
	assert.Equal(t, []string{"Android", "iOS"}, Strings(m, "list"))
	assert.Equal(t, []string{"Browser"}, Strings(m, "single"))
	assert.Nil(t, Strings(m, "num"))
	assert.Nil(t, Strings(m, "missing"))
	assert.Equal(t, "Browser", String(m, "single"))
	assert.Equal(t, "", String(m, "num"))
}
