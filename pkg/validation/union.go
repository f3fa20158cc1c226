package validation

import "github.com/CubeSugarZhang/webpack/pkg/schema"

// matchOneOf resolves a union. Every alternative is matched in declaration
// order; the first alternative that matches satisfies the union. Otherwise a
// single union-mismatch violation is returned whose details are the
// concatenated violations of all alternatives. Identical lines from
// different alternatives are kept, one per alternative.
func matchOneOf(n *schema.Node, v any, p Path) []Violation {
	var details []Violation
	for _, alt := range n.Alternatives {
		failures := Match(alt, v, p)
		if len(failures) == 0 {
			return nil
		}
		details = append(details, failures...)
	}

	return []Violation{{
		Path:     p,
		Kind:     KindUnionMismatch,
		Expected: "should be one of these:\n" + n.Text(),
		Details:  details,
		Schema:   n,
	}}
}
