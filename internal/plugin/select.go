package plugin

import "git.home.luguber.info/inful/plugindocs/internal/typedoc"

// SelectClass returns the first exported class among nodes, in the order
// the extractor emitted them.
func SelectClass(nodes []*typedoc.Node) (*typedoc.Node, bool) {
	for _, n := range nodes {
		if n.KindString == typedoc.KindClass && n.Flags.IsExported {
			return n, true
		}
	}
	return nil, false
}

// Interfaces returns the interface siblings of a module, unfiltered.
func Interfaces(nodes []*typedoc.Node) []*typedoc.Node {
	out := []*typedoc.Node{}
	for _, n := range nodes {
		if n.KindString == typedoc.KindInterface {
			out = append(out, n)
		}
	}
	return out
}
