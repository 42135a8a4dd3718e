// Package markdown inspects rendered pages with goldmark.
package markdown

import (
	"bytes"
	"regexp"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Heading is one ATX or setext heading.
type Heading struct {
	Level int
	Text  string
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Parse parses a markdown body (frontmatter already removed).
func Parse(body []byte) gmast.Node {
	return md.Parser().Parse(text.NewReader(body))
}

// Headings returns the headings of body in document order.
func Headings(body []byte) []Heading {
	root := Parse(body)
	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		out = append(out, Heading{Level: h.Level, Text: string(nodeText(h, body))})
		return gmast.WalkSkipChildren, nil
	})
	return out
}

func nodeText(n gmast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
		case *gmast.String:
			buf.Write(t.Value)
		default:
			buf.Write(nodeText(c, source))
		}
	}
	return buf.Bytes()
}

var tableReference = regexp.MustCompile(`See (\S+) table below`)

// UnresolvedReferences returns the type names cited as "See X table below"
// that have no heading with the same text, sorted and deduplicated.
func UnresolvedReferences(body []byte) []string {
	headings := map[string]bool{}
	for _, h := range Headings(body) {
		headings[h.Text] = true
	}
	missing := map[string]bool{}
	for _, m := range tableReference.FindAllSubmatch(body, -1) {
		name := string(m[1])
		if !headings[name] {
			missing[name] = true
		}
	}
	out := make([]string, 0, len(missing))
	for name := range missing {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
