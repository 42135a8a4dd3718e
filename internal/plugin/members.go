package plugin

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/plugindocs/internal/typedoc"
)

// DefaultBaseType is the class every plugin extends; its members are not
// documented per plugin.
const DefaultBaseType = "IonicNativePlugin"

// InheritanceFilter drops members inherited from the plugin base type.
type InheritanceFilter struct {
	BaseType string
	// Exact compares the full inheritedFrom name instead of its prefix, so
	// that e.g. IonicNativePluginX is kept.
	Exact bool
}

// DefaultFilter matches any inheritedFrom name starting with DefaultBaseType.
var DefaultFilter = InheritanceFilter{BaseType: DefaultBaseType}

// Excludes reports whether member is inherited from the base type.
func (f InheritanceFilter) Excludes(member *typedoc.Node) bool {
	if member.InheritedFrom == nil {
		return false
	}
	name := member.InheritedFrom.Name
	if f.Exact {
		return name == f.BaseType || strings.HasPrefix(name, f.BaseType+".")
	}
	return strings.HasPrefix(name, f.BaseType)
}

// Normalize maps the retained children to members sorted by name.
func (f InheritanceFilter) Normalize(children []*typedoc.Node) []Member {
	members := make([]Member, 0, len(children))
	for _, c := range children {
		if f.Excludes(c) {
			continue
		}
		members = append(members, normalizeMember(c))
	}
	// Byte-wise ordinal order: "Alpha" < "alpha" < "zeta".
	sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members
}

// NormalizeMembers applies DefaultFilter.
func NormalizeMembers(children []*typedoc.Node) []Member {
	return DefaultFilter.Normalize(children)
}

func normalizeMember(n *typedoc.Node) Member {
	m := Member{
		Name:        n.Name,
		Kind:        n.KindString,
		Description: memberDescription(n),
	}
	if len(n.Signatures) == 0 {
		return m
	}
	sig := n.Signatures[0]
	m.Returns = &Returns{Name: typeName(sig.Type)}
	if sig.Comment != nil {
		desc := sig.Comment.Returns
		m.Returns.Description = &desc
	}
	if sig.Type != nil && len(sig.Type.TypeArguments) == 1 {
		arg := typeName(sig.Type.TypeArguments[0])
		m.Returns.Type = &arg
	}
	if len(sig.Parameters) > 0 {
		m.Params = make([]Param, 0, len(sig.Parameters))
		for _, p := range sig.Parameters {
			m.Params = append(m.Params, normalizeParam(p))
		}
	}
	return m
}

func memberDescription(n *typedoc.Node) string {
	if len(n.Signatures) > 0 && n.Signatures[0].Comment != nil && n.Signatures[0].Comment.ShortText != "" {
		return n.Signatures[0].Comment.ShortText
	}
	if n.Comment != nil {
		return n.Comment.ShortText
	}
	return ""
}

func normalizeParam(p *typedoc.Node) Param {
	param := Param{
		Name:     p.Name,
		Type:     typeName(p.Type),
		Optional: p.Flags.IsOptional,
	}
	switch {
	case p.Type.IsReference():
		desc := "See " + p.Type.Name + " table below"
		param.Description = &desc
	case p.Comment != nil:
		desc := p.Comment.Text
		param.Description = &desc
	}
	return param
}

// typeName is the declared name of t, or its rendered form for anonymous
// types such as unions.
func typeName(t *typedoc.Type) string {
	if t == nil {
		return ""
	}
	if t.Name != "" {
		return t.Name
	}
	return t.String()
}
