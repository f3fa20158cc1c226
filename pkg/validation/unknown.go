package validation

import (
	"strings"

	"github.com/CubeSugarZhang/webpack/pkg/schema"
	"github.com/CubeSugarZhang/webpack/pkg/value"
)

// propertyToken is replaced by the offending key in guidance texts.
const propertyToken = "{property}"

// checkUndeclared handles the keys of v that n does not declare. With an
// additional schema their values are matched against it; on a closed object
// each one yields an unknown-property violation on the container path.
func checkUndeclared(n *schema.Node, v any, p Path) []Violation {
	if n.AdditionalProperties && n.AdditionalSchema == nil {
		return nil
	}

	var out []Violation
	for _, key := range value.Keys(v) {
		if _, declared := n.Property(key); declared {
			continue
		}
		if n.AdditionalSchema != nil {
			field, _ := value.Field(v, key)
			out = append(out, Match(n.AdditionalSchema, field, p.Property(key))...)
			continue
		}
		out = append(out, unknownProperty(n, key, p))
	}
	return out
}

func unknownProperty(n *schema.Node, key string, p Path) Violation {
	expected := n.Text()
	if guidance := guidanceFor(n, key); guidance != "" {
		expected += "\n" + guidance
	}
	return Violation{
		Path:     p,
		Kind:     KindUnknownProperty,
		Property: key,
		Expected: expected,
		Schema:   n,
	}
}

func guidanceFor(n *schema.Node, key string) string {
	text, ok := n.PropertyGuidance[key]
	if !ok {
		text = n.Guidance
	}
	return strings.ReplaceAll(text, propertyToken, key)
}
