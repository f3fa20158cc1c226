package schema

// Kind identifies which variant of the schema sum type a Node holds.
// Only the fields documented for a kind are meaningful on that node.
type Kind string

const (
	KindString   Kind = "string"   // NotEmpty
	KindBoolean  Kind = "boolean"  // -
	KindNumber   Kind = "number"   // -
	KindRegExp   Kind = "regexp"   // instance of RegExp
	KindFunction Kind = "function" // instance of function
	KindEnum     Kind = "enum"     // Values
	KindConst    Kind = "const"    // Value
	KindObject   Kind = "object"   // Properties, AdditionalProperties, AdditionalSchema, Guidance, PropertyGuidance
	KindArray    Kind = "array"    // Items
	KindOneOf    Kind = "oneOf"    // Alternatives
	KindCustom   Kind = "custom"   // Check, Base
)

// Node is one unit of a declarative schema. Nodes are built once by the
// embedding application and treated as read-only afterwards; the With*
// modifiers return modified copies and never touch the receiver.
//
// Schemas must be acyclic. Nothing checks this at validation time.
type Node struct {
	Kind        Kind
	Description string

	// NotEmpty rejects the empty string. Only meaningful for KindString.
	NotEmpty bool

	// Values lists the allowed values of an enum.
	Values []any

	// Value is the single allowed value of a const.
	Value any

	// Properties are the declared properties of an object in declaration order.
	Properties []Property

	// AdditionalProperties allows keys that are not declared. When
	// AdditionalSchema is set, undeclared keys are allowed and their values
	// must match it.
	AdditionalProperties bool
	AdditionalSchema     *Node

	// Guidance is appended to unknown-property reports for this object.
	// The token {property} is replaced with the offending key.
	Guidance string

	// PropertyGuidance overrides Guidance for specific unknown keys.
	PropertyGuidance map[string]string

	// Items is the schema every array element must match.
	Items *Node

	// Alternatives of a oneOf node, in declaration order.
	Alternatives []*Node

	// Check is the predicate of a custom node. Base, when set, is matched
	// first and the predicate only runs once the value satisfies it.
	Check *Check
	Base  *Node
}

// Property is a named member of an object schema.
type Property struct {
	Name     string
	Schema   *Node
	Required bool
}

// Prop declares an optional property.
func Prop(name string, schema *Node) Property {
	return Property{Name: name, Schema: schema}
}

// RequiredProp declares a required property.
func RequiredProp(name string, schema *Node) Property {
	return Property{Name: name, Schema: schema, Required: true}
}

// String creates a string schema.
func String() *Node {
	return &Node{Kind: KindString}
}

// NonEmptyString creates a string schema that rejects "".
func NonEmptyString() *Node {
	return &Node{Kind: KindString, NotEmpty: true}
}

// Boolean creates a boolean schema.
func Boolean() *Node {
	return &Node{Kind: KindBoolean}
}

// Number creates a number schema.
func Number() *Node {
	return &Node{Kind: KindNumber}
}

// RegExp creates a schema matching regular expression instances.
func RegExp() *Node {
	return &Node{Kind: KindRegExp}
}

// Function creates a schema matching function instances.
func Function() *Node {
	return &Node{Kind: KindFunction}
}

// Enum creates a schema that accepts exactly one of values.
func Enum(values ...any) *Node {
	return &Node{Kind: KindEnum, Values: values}
}

// Const creates a schema that accepts exactly v.
func Const(v any) *Node {
	return &Node{Kind: KindConst, Value: v}
}

// Object creates a closed object schema with the given properties.
func Object(props ...Property) *Node {
	return &Node{Kind: KindObject, Properties: props}
}

// Array creates an array schema whose elements must match items.
func Array(items *Node) *Node {
	return &Node{Kind: KindArray, Items: items}
}

// OneOf creates a union schema satisfied when any alternative matches.
func OneOf(alternatives ...*Node) *Node {
	return &Node{Kind: KindOneOf, Alternatives: alternatives}
}

// Custom creates a schema validated by check after base (if any) matched.
func Custom(check *Check, base *Node) *Node {
	return &Node{Kind: KindCustom, Check: check, Base: base}
}

// AbsolutePath creates a string schema that additionally requires the value
// to be an absolute path (expectAbsolute) or a relative one (!expectAbsolute).
func AbsolutePath(expectAbsolute bool) *Node {
	return Custom(AbsolutePathCheck(expectAbsolute), String())
}

// WithDescription returns a copy of n carrying desc.
func (n *Node) WithDescription(desc string) *Node {
	c := *n
	c.Description = desc
	return &c
}

// WithAdditional returns a copy of an object schema whose undeclared keys
// must match schema.
func (n *Node) WithAdditional(schema *Node) *Node {
	c := *n
	c.AdditionalProperties = true
	c.AdditionalSchema = schema
	return &c
}

// Open returns a copy of an object schema that accepts any undeclared key.
func (n *Node) Open() *Node {
	c := *n
	c.AdditionalProperties = true
	c.AdditionalSchema = nil
	return &c
}

// WithGuidance returns a copy of an object schema with remediation text for
// unknown properties.
func (n *Node) WithGuidance(text string) *Node {
	c := *n
	c.Guidance = text
	return &c
}

// WithPropertyGuidance returns a copy of an object schema with remediation
// text for one specific unknown key.
func (n *Node) WithPropertyGuidance(key, text string) *Node {
	c := *n
	c.PropertyGuidance = make(map[string]string, len(n.PropertyGuidance)+1)
	for k, v := range n.PropertyGuidance {
		c.PropertyGuidance[k] = v
	}
	c.PropertyGuidance[key] = text
	return &c
}

// WithNotEmpty returns a copy of a string schema that rejects "".
func (n *Node) WithNotEmpty() *Node {
	c := *n
	c.NotEmpty = true
	return &c
}
