package schema

import (
	"strings"

	"github.com/CubeSugarZhang/webpack/pkg/value"
)

// Summary renders the compact, single-line description of the shape n
// accepts, e.g. "object { entry, output? } | non-empty string | function".
// Object summaries list property names only, so the result stays short for
// deeply nested schemas.
func (n *Node) Summary() string {
	switch n.Kind {
	case KindString:
		if n.NotEmpty {
			return "non-empty string"
		}
		return "string"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindRegExp:
		return "RegExp"
	case KindFunction:
		return "function"
	case KindEnum:
		parts := make([]string, len(n.Values))
		for i, v := range n.Values {
			parts[i] = value.Format(v)
		}
		return strings.Join(parts, " | ")
	case KindConst:
		return value.Format(n.Value)
	case KindArray:
		if n.Items == nil {
			return "array"
		}
		return "[" + n.Items.Summary() + "]"
	case KindObject:
		return n.objectSummary()
	case KindOneOf:
		parts := make([]string, len(n.Alternatives))
		for i, alt := range n.Alternatives {
			parts[i] = alt.Summary()
		}
		return strings.Join(parts, " | ")
	case KindCustom:
		if n.Base != nil {
			return n.Base.Summary()
		}
		if n.Check != nil {
			return n.Check.ID
		}
	}
	return string(n.Kind)
}

func (n *Node) objectSummary() string {
	entries := make([]string, 0, len(n.Properties)+1)
	for _, p := range n.Properties {
		if p.Required {
			entries = append(entries, p.Name)
		} else {
			entries = append(entries, p.Name+"?")
		}
	}
	if n.AdditionalSchema != nil {
		entries = append(entries, "<key>: "+n.AdditionalSchema.Summary())
	}
	if len(entries) == 0 {
		return "object"
	}
	return "object { " + strings.Join(entries, ", ") + " }"
}

// Text is Summary followed by the description on its own "-> " line.
func (n *Node) Text() string {
	if n.Description == "" {
		return n.Summary()
	}
	return n.Summary() + "\n-> " + n.Description
}
