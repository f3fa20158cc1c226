package schema

import "strings"

// Walk visits n and every node below it in declaration order. Returning
// false from visit skips the children of the visited node.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, p := range n.Properties {
		Walk(p.Schema, visit)
	}
	Walk(n.AdditionalSchema, visit)
	Walk(n.Items, visit)
	for _, alt := range n.Alternatives {
		Walk(alt, visit)
	}
	Walk(n.Base, visit)
}

// Property returns the declared property called name.
func (n *Node) Property(name string) (Property, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// PropertyNames returns declared property names in declaration order.
func (n *Node) PropertyNames() []string {
	names := make([]string, len(n.Properties))
	for i, p := range n.Properties {
		names[i] = p.Name
	}
	return names
}

// Lookup finds the schema for a dotted property path such as
// "output.filename". A "[]" suffix steps into array items, e.g.
// "module.rules[].loader". Unions are searched alternative by alternative
// in declaration order. An empty path returns n itself.
func (n *Node) Lookup(path string) (*Node, bool) {
	if path == "" {
		return n, true
	}
	return lookup(n, strings.Split(path, "."))
}

func lookup(n *Node, segments []string) (*Node, bool) {
	if len(segments) == 0 {
		return n, true
	}

	name := segments[0]
	depth := 0
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
		depth++
	}

	for _, child := range propertyCandidates(n, name) {
		current := []*Node{child}
		for i := 0; i < depth; i++ {
			current = itemCandidates(current)
		}
		for _, c := range current {
			if found, ok := lookup(c, segments[1:]); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// propertyCandidates returns every schema name may refer to under n.
func propertyCandidates(n *Node, name string) []*Node {
	switch n.Kind {
	case KindObject:
		if p, ok := n.Property(name); ok {
			return []*Node{p.Schema}
		}
	case KindOneOf:
		var out []*Node
		for _, alt := range n.Alternatives {
			out = append(out, propertyCandidates(alt, name)...)
		}
		return out
	case KindCustom:
		if n.Base != nil {
			return propertyCandidates(n.Base, name)
		}
	}
	return nil
}

func itemCandidates(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		switch n.Kind {
		case KindArray:
			if n.Items != nil {
				out = append(out, n.Items)
			}
		case KindOneOf:
			out = append(out, itemCandidates(n.Alternatives)...)
		case KindCustom:
			if n.Base != nil {
				out = append(out, itemCandidates([]*Node{n.Base})...)
			}
		}
	}
	return out
}
