package validation

import (
	"github.com/CubeSugarZhang/webpack/pkg/schema"
	"github.com/CubeSugarZhang/webpack/pkg/value"
)

// Group holds the violations of one configuration. Indexed is set when the
// input was an array of configurations; Index is then the position of the
// configuration and every path in the group starts with "[Index]".
type Group struct {
	Index      int
	Indexed    bool
	Violations []Violation
}

// Result is the outcome of checking a value. Groups only contains
// configurations that had at least one violation.
type Result struct {
	Groups []Group

	// Configurations is the number of configurations that were checked.
	Configurations int
}

// Valid reports whether no violations were found.
func (r Result) Valid() bool {
	return len(r.Groups) == 0
}

// Violations returns all top-level violations in report order.
func (r Result) Violations() []Violation {
	var out []Violation
	for _, g := range r.Groups {
		out = append(out, g.Violations...)
	}
	return out
}

// Count returns the number of top-level violations.
func (r Result) Count() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Violations)
	}
	return n
}

// Validator checks configuration values against a fixed schema. A Validator
// is immutable and safe for concurrent use.
type Validator struct {
	schema *schema.Node
	header string
}

// Option configures a Validator.
type Option func(*Validator)

// WithHeader replaces the first line of failure reports.
func WithHeader(header string) Option {
	return func(v *Validator) {
		v.header = header
	}
}

// NewValidator creates a Validator for root.
func NewValidator(root *schema.Node, opts ...Option) *Validator {
	v := &Validator{
		schema: root,
		header: DefaultHeader,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Schema returns the root schema.
func (v *Validator) Schema() *schema.Node {
	return v.schema
}

// Header returns the report header.
func (v *Validator) Header() string {
	return v.header
}

// Check validates cfg, which is either one configuration object or an array
// of them. Any other root yields a single invalid-root violation without
// consulting the schema.
func (v *Validator) Check(cfg any) Result {
	switch value.KindOf(cfg) {
	case value.KindObject:
		res := Result{Configurations: 1}
		if vs := Match(v.schema, cfg, Root()); len(vs) > 0 {
			res.Groups = []Group{{Violations: vs}}
		}
		return res

	case value.KindArray:
		elems := value.Elements(cfg)
		res := Result{Configurations: len(elems)}
		for i, elem := range elems {
			if vs := Match(v.schema, elem, Root().Index(i)); len(vs) > 0 {
				res.Groups = append(res.Groups, Group{Index: i, Indexed: true, Violations: vs})
			}
		}
		return res
	}

	return Result{
		Configurations: 1,
		Groups: []Group{{Violations: []Violation{{
			Path:     Root(),
			Kind:     KindInvalidRoot,
			Expected: "should be an object.",
		}}}},
	}
}

// Validate checks cfg and returns a *ValidationError carrying the formatted
// report when any violation was found.
func (v *Validator) Validate(cfg any) error {
	return v.Err(v.Check(cfg))
}

// Err returns the *ValidationError reporting res, or nil when res is valid.
func (v *Validator) Err(res Result) error {
	if res.Valid() {
		return nil
	}
	return newValidationError(v.header, res)
}

// Validate checks cfg against root using the default header.
func Validate(root *schema.Node, cfg any) error {
	return NewValidator(root).Validate(cfg)
}
