package validation

import "github.com/CubeSugarZhang/webpack/pkg/schema"

// Kind categorizes a violation.
type Kind string

const (
	KindTypeMismatch    Kind = "type-mismatch"             // Wrong runtime type, or an empty non-empty string
	KindMissingProperty Kind = "missing-required-property" // Required property absent
	KindUnknownProperty Kind = "unknown-property"          // Undeclared key on a closed object
	KindEnumMismatch    Kind = "enum-mismatch"             // Value not among enum/const values
	KindUnionMismatch   Kind = "union-mismatch"            // No oneOf alternative matched
	KindCustom          Kind = "custom-semantic"           // Custom predicate failed
	KindInvalidRoot     Kind = "invalid-root"              // Root is neither object nor array
)

// Kinds lists every violation kind in a stable order.
var Kinds = []Kind{
	KindTypeMismatch,
	KindMissingProperty,
	KindUnknownProperty,
	KindEnumMismatch,
	KindUnionMismatch,
	KindCustom,
	KindInvalidRoot,
}

// Violation is a single mismatch between a configuration value and its
// schema. Violations are created by the matcher and not modified afterwards.
type Violation struct {
	// Path is where the rule was evaluated. For missing properties it is the
	// path of the absent property; for unknown properties it is the path of
	// the containing object.
	Path Path

	Kind Kind

	// Expected holds the statement that follows the path in a report, such as
	// "should be a string." For missing and unknown properties it holds the
	// schema text that is listed below the fixed phrasing.
	Expected string

	// Property names the absent or unknown key for property violations.
	Property string

	// Message is the full text of a custom violation.
	Message string

	// Details explains a union or enum mismatch: the violations of every
	// alternative, in declaration order.
	Details []Violation

	// Schema is the node that produced the violation.
	Schema *schema.Node
}
