// Package typedoc models the JSON symbol tree written by TypeDoc.
//
// Only the fields plugindocs reads are declared; everything else in the
// document is ignored by encoding/json.
package typedoc

import "strings"

// Kind strings emitted in the kindString field.
const (
	KindExternalModule = "External module"
	KindModule         = "Module"
	KindClass          = "Class"
	KindInterface      = "Interface"
	KindMethod         = "Method"
	KindProperty       = "Property"
	KindAccessor       = "Accessor"
	KindConstructor    = "Constructor"
	KindCallSignature  = "Call signature"
	KindParameter      = "Parameter"
)

// Type kinds emitted in Type.Type.
const (
	TypeReference = "reference"
	TypeIntrinsic = "intrinsic"
	TypeUnion     = "union"
	TypeArray     = "array"
)

// Node is one reflection in the symbol tree.
type Node struct {
	ID            int          `json:"id"`
	Name          string       `json:"name"`
	Kind          int          `json:"kind"`
	KindString    string       `json:"kindString,omitempty"`
	Flags         Flags        `json:"flags"`
	Decorators    []*Decorator `json:"decorators,omitempty"`
	Comment       *Comment     `json:"comment,omitempty"`
	Children      []*Node      `json:"children,omitempty"`
	Signatures    []*Node      `json:"signatures,omitempty"`
	Parameters    []*Node      `json:"parameters,omitempty"`
	Type          *Type        `json:"type,omitempty"`
	InheritedFrom *Type        `json:"inheritedFrom,omitempty"`
	Sources       []Source     `json:"sources,omitempty"`
}

// Flags carries the boolean modifiers of a reflection.
type Flags struct {
	IsExported  bool `json:"isExported,omitempty"`
	IsOptional  bool `json:"isOptional,omitempty"`
	IsStatic    bool `json:"isStatic,omitempty"`
	IsPrivate   bool `json:"isPrivate,omitempty"`
	IsProtected bool `json:"isProtected,omitempty"`
}

// Decorator is a decorator applied to a declaration. Arguments map the
// decorator's parameter names to the source text of the passed expression.
type Decorator struct {
	Name      string         `json:"name"`
	Type      *Type          `json:"type,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Argument returns the named argument when it is a string.
func (d *Decorator) Argument(name string) (string, bool) {
	if d == nil || d.Arguments == nil {
		return "", false
	}
	s, ok := d.Arguments[name].(string)
	return s, ok
}

// Comment is a parsed doc comment.
type Comment struct {
	ShortText string `json:"shortText,omitempty"`
	Text      string `json:"text,omitempty"`
	Returns   string `json:"returns,omitempty"`
	Tags      []Tag  `json:"tags,omitempty"`
}

// Tag is a block tag such as @name or @usage.
type Tag struct {
	Tag   string `json:"tag"`
	Text  string `json:"text"`
	Param string `json:"param,omitempty"`
}

// Tag returns the first tag with the given name.
func (c *Comment) Tag(name string) (Tag, bool) {
	if c == nil {
		return Tag{}, false
	}
	for _, t := range c.Tags {
		if t.Tag == name {
			return t, true
		}
	}
	return Tag{}, false
}

// Type describes a type expression.
type Type struct {
	Type          string  `json:"type"`
	Name          string  `json:"name,omitempty"`
	ID            int     `json:"id,omitempty"`
	TypeArguments []*Type `json:"typeArguments,omitempty"`
	ElementType   *Type   `json:"elementType,omitempty"`
	Types         []*Type `json:"types,omitempty"`
}

// IsReference reports whether the type names another declared symbol.
func (t *Type) IsReference() bool { return t != nil && t.Type == TypeReference }

// String renders the type the way it is written in TypeScript source.
func (t *Type) String() string {
	if t == nil {
		return ""
	}
	switch t.Type {
	case TypeArray:
		return t.ElementType.String() + "[]"
	case TypeUnion:
		parts := make([]string, 0, len(t.Types))
		for _, u := range t.Types {
			parts = append(parts, u.String())
		}
		return strings.Join(parts, " | ")
	}
	if len(t.TypeArguments) == 0 {
		return t.Name
	}
	args := make([]string, 0, len(t.TypeArguments))
	for _, a := range t.TypeArguments {
		args = append(args, a.String())
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

// Source locates a declaration in the extracted sources.
type Source struct {
	FileName  string `json:"fileName"`
	Line      int    `json:"line"`
	Character int    `json:"character,omitempty"`
}

// ChildrenOfKind returns the direct children whose kindString equals kind, in order.
func (n *Node) ChildrenOfKind(kind string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.KindString == kind {
			out = append(out, c)
		}
	}
	return out
}
