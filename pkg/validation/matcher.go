package validation

import (
	"github.com/CubeSugarZhang/webpack/pkg/schema"
	"github.com/CubeSugarZhang/webpack/pkg/value"
)

// Match walks v against n and returns every violation found, in traversal
// order: object properties in declaration order, then undeclared keys in the
// value's key order, array elements by index. Match is pure and safe for
// concurrent use with a shared schema.
func Match(n *schema.Node, v any, p Path) []Violation {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case schema.KindString:
		return matchString(n, v, p)
	case schema.KindBoolean:
		return matchPrimitive(n, v, p, value.KindBoolean, "should be a boolean.")
	case schema.KindNumber:
		return matchPrimitive(n, v, p, value.KindNumber, "should be a number.")
	case schema.KindRegExp:
		return matchPrimitive(n, v, p, value.KindRegExp, "should be an instance of RegExp")
	case schema.KindFunction:
		return matchPrimitive(n, v, p, value.KindFunction, "should be an instance of function")
	case schema.KindEnum:
		return matchEnum(n, n.Values, v, p)
	case schema.KindConst:
		return matchEnum(n, []any{n.Value}, v, p)
	case schema.KindObject:
		return matchObject(n, v, p)
	case schema.KindArray:
		return matchArray(n, v, p)
	case schema.KindOneOf:
		return matchOneOf(n, v, p)
	case schema.KindCustom:
		return matchCustom(n, v, p)
	}
	return nil
}

func matchString(n *schema.Node, v any, p Path) []Violation {
	s, ok := value.String(v)
	if !ok {
		return []Violation{typeMismatch(n, p, "should be a string.")}
	}
	if n.NotEmpty && s == "" {
		return []Violation{typeMismatch(n, p, "should not be empty.")}
	}
	return nil
}

func matchPrimitive(n *schema.Node, v any, p Path, want value.Kind, statement string) []Violation {
	if value.KindOf(v) == want {
		return nil
	}
	return []Violation{typeMismatch(n, p, statement)}
}

// typeMismatch builds a type-mismatch violation, appending the node's
// description as a "-> " line.
func typeMismatch(n *schema.Node, p Path, statement string) Violation {
	if n.Description != "" {
		statement += "\n-> " + n.Description
	}
	return Violation{
		Path:     p,
		Kind:     KindTypeMismatch,
		Expected: statement,
		Schema:   n,
	}
}

// matchEnum treats an enum as a degenerate union: with several allowed
// values each one becomes a detail line.
func matchEnum(n *schema.Node, allowed []any, v any, p Path) []Violation {
	for _, a := range allowed {
		if value.Equal(a, v) {
			return nil
		}
	}

	if len(allowed) == 1 {
		return []Violation{{
			Path:     p,
			Kind:     KindEnumMismatch,
			Expected: "should be " + n.Text(),
			Schema:   n,
		}}
	}

	details := make([]Violation, len(allowed))
	for i, a := range allowed {
		details[i] = Violation{
			Path:     p,
			Kind:     KindEnumMismatch,
			Expected: "should be " + value.Format(a),
			Schema:   n,
		}
	}
	return []Violation{{
		Path:     p,
		Kind:     KindEnumMismatch,
		Expected: "should be one of these:\n" + n.Text(),
		Details:  details,
		Schema:   n,
	}}
}

func matchObject(n *schema.Node, v any, p Path) []Violation {
	if value.KindOf(v) != value.KindObject {
		return []Violation{typeMismatch(n, p, "should be an object.")}
	}

	var out []Violation
	for _, prop := range n.Properties {
		child := p.Property(prop.Name)
		field, ok := value.Field(v, prop.Name)
		if !ok {
			if prop.Required {
				out = append(out, missingProperty(prop, child))
			}
			continue
		}
		out = append(out, Match(prop.Schema, field, child)...)
	}

	return append(out, checkUndeclared(n, v, p)...)
}

func missingProperty(prop schema.Property, p Path) Violation {
	return Violation{
		Path:     p,
		Kind:     KindMissingProperty,
		Property: prop.Name,
		Expected: prop.Schema.Text(),
		Schema:   prop.Schema,
	}
}

func matchArray(n *schema.Node, v any, p Path) []Violation {
	if value.KindOf(v) != value.KindArray {
		return []Violation{{
			Path:     p,
			Kind:     KindTypeMismatch,
			Expected: "should be an array:\n" + n.Text(),
			Schema:   n,
		}}
	}

	var out []Violation
	for i, elem := range value.Elements(v) {
		out = append(out, Match(n.Items, elem, p.Index(i))...)
	}
	return out
}

// matchCustom matches the base schema first; the check only runs on values
// that already have the expected shape, so its message never appears next
// to a generic type mismatch.
func matchCustom(n *schema.Node, v any, p Path) []Violation {
	if n.Base != nil {
		base := n.Base
		if base.Description == "" && n.Description != "" {
			base = base.WithDescription(n.Description)
		}
		if out := Match(base, v, p); len(out) > 0 {
			return out
		}
	}

	if n.Check == nil || n.Check.Test == nil || n.Check.Test(v) {
		return nil
	}
	return []Violation{{
		Path:    p,
		Kind:    KindCustom,
		Message: n.Check.Explain(v),
		Schema:  n,
	}}
}
