package decorator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var literalLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.)*?\*/`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'|` + "`[^`]*`"},
	{Name: "Number", Pattern: `-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`},
	{Name: "Punct", Pattern: `[{}\[\]:,]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type objectLit struct {
	Pos     lexer.Position
	Entries []*entryLit `parser:"\"{\" ( @@ ( \",\" @@ )* \",\"? )? \"}\""`
}

type entryLit struct {
	Pos lexer.Position
	// Digit-led keys such as 2fa lex as Number followed by Ident.
	Key   string    `parser:"( @Ident | @String | @( Number Ident? ) )"`
	Value *valueLit `parser:"\":\" @@"`
}

type arrayLit struct {
	Elements []*valueLit `parser:"\"[\" ( @@ ( \",\" @@ )* \",\"? )? \"]\""`
}

type valueLit struct {
	Pos    lexer.Position
	String *string    `parser:"  @String"`
	Number *string    `parser:"| @Number"`
	Bool   *string    `parser:"| @( \"true\" | \"false\" )"`
	Null   bool       `parser:"| @( \"null\" | \"undefined\" )"`
	Array  *arrayLit  `parser:"| @@"`
	Object *objectLit `parser:"| @@"`
}

var literalParser = participle.MustBuild[objectLit](
	participle.Lexer(literalLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(4),
)

// Parse reads src as an object literal. Keys may be bare words, numeric ones
// such as 1 or 2fa included, or quoted strings. Strings may use single, double
// or back quotes and trailing commas are accepted. Blank input yields an empty
// map.
func Parse(src string) (map[string]any, error) {
	if isBlank(src) {
		return map[string]any{}, nil
	}
	obj, err := literalParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return obj.decode()
}

func (o *objectLit) decode() (map[string]any, error) {
	out := make(map[string]any, len(o.Entries))
	for _, e := range o.Entries {
		key := e.Key
		if isQuoted(key) {
			k, err := unquote(key)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: key %s: %w", ErrSyntax, e.Pos, key, err)
			}
			key = k
		}
		v, err := e.Value.decode()
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func (v *valueLit) decode() (any, error) {
	switch {
	case v.String != nil:
		s, err := unquote(*v.String)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSyntax, v.Pos, err)
		}
		return s, nil
	case v.Number != nil:
		f, err := strconv.ParseFloat(*v.Number, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: number %s: %w", ErrSyntax, v.Pos, *v.Number, err)
		}
		return f, nil
	case v.Bool != nil:
		return *v.Bool == "true", nil
	case v.Null:
		return nil, nil
	case v.Array != nil:
		out := make([]any, 0, len(v.Array.Elements))
		for _, e := range v.Array.Elements {
			d, err := e.decode()
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	case v.Object != nil:
		return v.Object.decode()
	}
	return nil, fmt.Errorf("%w: %s: empty value", ErrSyntax, v.Pos)
}

func isQuoted(s string) bool {
	return len(s) >= 2 && strings.ContainsRune(`"'`+"`", rune(s[0]))
}

// unquote strips the quotes of a JavaScript string literal and resolves its
// escape sequences.
func unquote(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != lit[len(lit)-1] {
		return "", fmt.Errorf("malformed string %s", lit)
	}
	body := lit[1 : len(lit)-1]
	if lit[0] == '`' || !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("trailing backslash in %s", lit)
		}
		switch e := body[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case 'u':
			if i+5 > len(body) {
				return "", fmt.Errorf("short unicode escape in %s", lit)
			}
			r, err := strconv.ParseUint(body[i+1:i+5], 16, 32)
			if err != nil {
				return "", fmt.Errorf("bad unicode escape in %s: %w", lit, err)
			}
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], rune(r))
			b.Write(buf[:n])
			i += 4
		default:
			b.WriteByte(e)
		}
	}
	return b.String(), nil
}
