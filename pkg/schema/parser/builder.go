package parser

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CubeSugarZhang/webpack/pkg/schema"
)

// keywords lists every keyword a schema node may use, in documentation order.
var keywords = []string{
	"description",
	"type",
	"minLength",
	"instanceof",
	"enum",
	"const",
	"oneOf",
	"anyOf",
	"items",
	"properties",
	"required",
	"additionalProperties",
	"guidance",
	"propertyGuidance",
	"absolutePath",
	"check",
	"hint",
}

// rootOnlyKeywords are accepted on the document root only.
var rootOnlyKeywords = []string{"definitions"}

var (
	objectKeywords = []string{"properties", "required", "additionalProperties", "guidance", "propertyGuidance"}
	kindKeywords   = []string{"type", "instanceof", "enum", "const", "oneOf", "anyOf"}
	typeNames      = []string{"string", "boolean", "number", "object", "array"}
	instanceNames  = []string{"RegExp", "Function"}
)

// builder turns a yaml.Node tree into schema nodes, collecting every error
// instead of stopping at the first one.
type builder struct {
	sourcePath string
	checks     map[string]*schema.Check
	errors     *ErrorList

	// Anchored subtrees are built once and shared by all aliases.
	built    map[*yaml.Node]*schema.Node
	building map[*yaml.Node]bool
}

func newBuilder(sourcePath string, checks map[string]*schema.Check) *builder {
	return &builder{
		sourcePath: sourcePath,
		checks:     checks,
		errors:     NewErrorList(),
		built:      make(map[*yaml.Node]*schema.Node),
		building:   make(map[*yaml.Node]bool),
	}
}

func (b *builder) location(n *yaml.Node) Location {
	return Location{File: b.sourcePath, Line: n.Line, Column: n.Column}
}

func (b *builder) errorf(n *yaml.Node, format string, args ...any) {
	b.errors.AddError(ErrorTypeStructural, fmt.Sprintf(format, args...), b.location(n))
}

func (b *builder) buildRoot(n *yaml.Node) *schema.Node {
	return b.build(n, true)
}

// build converts one schema node. It returns nil when the node is invalid;
// the reason is recorded in b.errors.
func (b *builder) build(n *yaml.Node, root bool) *schema.Node {
	if n.Kind == yaml.AliasNode {
		return b.buildAlias(n)
	}

	if n.Anchor != "" {
		if cached, ok := b.built[n]; ok {
			return cached
		}
		if b.building[n] {
			b.errorf(n, "Schema anchor &%s refers to itself", n.Anchor)
			return nil
		}
		b.building[n] = true
		defer delete(b.building, n)
	}

	node := b.buildMapping(n, root)
	if n.Anchor != "" && node != nil {
		b.built[n] = node
	}
	return node
}

func (b *builder) buildAlias(n *yaml.Node) *schema.Node {
	target := n.Alias
	if target == nil {
		b.errorf(n, "Unresolved alias *%s", n.Value)
		return nil
	}
	if b.building[target] {
		b.errorf(n, "Recursive alias *%s: schemas must be acyclic", n.Value)
		return nil
	}
	return b.build(target, false)
}

func (b *builder) buildMapping(n *yaml.Node, root bool) *schema.Node {
	if n.Kind != yaml.MappingNode {
		b.errorf(n, "Schema must be a mapping, got %s", nodeKindName(n))
		return nil
	}

	kw := make(map[string]*yaml.Node, len(n.Content)/2)
	var merged []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch {
		case key.Tag == "!!merge":
			merged = append(merged, b.mergeSources(val)...)
			continue
		case slices.Contains(keywords, key.Value):
		case root && slices.Contains(rootOnlyKeywords, key.Value):
			continue
		default:
			valid := keywords
			if root {
				valid = append(append([]string{}, keywords...), rootOnlyKeywords...)
			}
			b.errors.AddErrorWithSuggestion(ErrorTypeStructural,
				fmt.Sprintf("Unknown schema keyword %q", key.Value),
				b.location(key),
				SuggestKeyword(key.Value, valid))
			continue
		}
		kw[key.Value] = val
	}

	// Keys written on the node win over merged ones.
	for _, src := range merged {
		for i := 0; i+1 < len(src.Content); i += 2 {
			key := src.Content[i].Value
			if _, set := kw[key]; !set && slices.Contains(keywords, key) {
				kw[key] = src.Content[i+1]
			}
		}
	}

	if root {
		if defs := mappingValue(n, "definitions"); defs != nil {
			b.buildDefinitions(defs)
		}
	}

	var node *schema.Node
	if isBareCheck(kw) {
		// A check without a kind keyword runs on any value.
		if !b.checkApplicable(kw, "") {
			return nil
		}
	} else {
		node = b.buildKind(n, kw)
		if node == nil {
			return nil
		}
	}

	node = b.wrapCheck(n, kw, node)
	if node == nil {
		return nil
	}

	if d, ok := kw["description"]; ok {
		if desc, ok := b.stringValue(d, "description"); ok {
			node = node.WithDescription(desc)
		}
	}
	return node
}

// mergeSources resolves the value of a "<<" merge key to the mappings it
// pulls in.
func (b *builder) mergeSources(n *yaml.Node) []*yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{n}
	case yaml.SequenceNode:
		var out []*yaml.Node
		for _, item := range n.Content {
			out = append(out, b.mergeSources(item)...)
		}
		return out
	}
	b.errorf(n, "Merge key must refer to a mapping, got %s", nodeKindName(n))
	return nil
}

// buildDefinitions validates the reusable subtrees under "definitions" so
// errors in anchors that nothing aliases yet are still reported.
func (b *builder) buildDefinitions(defs *yaml.Node) {
	if defs.Kind != yaml.MappingNode {
		b.errorf(defs, "definitions must be a mapping, got %s", nodeKindName(defs))
		return
	}
	for i := 0; i+1 < len(defs.Content); i += 2 {
		b.build(defs.Content[i+1], false)
	}
}

// buildKind selects the node variant from the kind-determining keywords.
func (b *builder) buildKind(n *yaml.Node, kw map[string]*yaml.Node) *schema.Node {
	var present []string
	for _, k := range kindKeywords {
		if _, ok := kw[k]; ok {
			present = append(present, k)
		}
	}
	if len(present) > 1 {
		b.errorf(n, "Conflicting schema keywords: %s", strings.Join(present, ", "))
		return nil
	}

	kind := ""
	if len(present) == 1 {
		kind = present[0]
	}
	if kind == "type" {
		t, ok := b.stringValue(kw["type"], "type")
		if !ok {
			return nil
		}
		if !slices.Contains(typeNames, t) {
			b.errors.AddErrorWithSuggestion(ErrorTypeStructural,
				fmt.Sprintf("Unknown type %q", t),
				b.location(kw["type"]),
				SuggestKeyword(t, typeNames))
			return nil
		}
		kind = t
	}
	if kind == "" {
		switch {
		case hasAny(kw, objectKeywords):
			kind = "object"
		case kw["items"] != nil:
			kind = "array"
		case kw["absolutePath"] != nil:
			kind = "string"
		default:
			b.errorf(n, "Cannot determine schema kind: expected one of %s, properties or items",
				strings.Join(kindKeywords, ", "))
			return nil
		}
	}

	if !b.checkApplicable(kw, kind) {
		return nil
	}

	switch kind {
	case "string":
		node := schema.String()
		if ml, ok := kw["minLength"]; ok {
			var minLength int
			if err := ml.Decode(&minLength); err != nil {
				b.errorf(ml, "minLength must be an integer")
				return nil
			}
			if minLength >= 1 {
				node = node.WithNotEmpty()
			}
		}
		return node
	case "boolean":
		return schema.Boolean()
	case "number":
		return schema.Number()
	case "object":
		return b.buildObject(kw)
	case "array":
		return b.buildArray(kw)
	case "instanceof":
		return b.buildInstance(kw["instanceof"])
	case "enum":
		return b.buildEnum(kw["enum"])
	case "const":
		var v any
		if err := kw["const"].Decode(&v); err != nil {
			b.errorf(kw["const"], "Invalid const value: %v", err)
			return nil
		}
		return schema.Const(v)
	case "oneOf", "anyOf":
		return b.buildUnion(kw[kind], kind)
	}
	return nil
}

// checkApplicable rejects keywords that do not belong to kind.
func (b *builder) checkApplicable(kw map[string]*yaml.Node, kind string) bool {
	ok := true
	reject := func(keys []string, valid string) {
		for _, k := range keys {
			if n, found := kw[k]; found {
				b.errorf(n, "Keyword %q is only valid for %s schemas", k, valid)
				ok = false
			}
		}
	}
	if kind != "object" {
		reject(objectKeywords, "object")
	}
	if kind != "array" {
		reject([]string{"items"}, "array")
	}
	if kind != "string" {
		reject([]string{"minLength", "absolutePath"}, "string")
	}
	return ok
}

func (b *builder) buildObject(kw map[string]*yaml.Node) *schema.Node {
	node := schema.Object()
	valid := true

	if props, found := kw["properties"]; found {
		if props.Kind != yaml.MappingNode {
			b.errorf(props, "properties must be a mapping, got %s", nodeKindName(props))
			return nil
		}
		for i := 0; i+1 < len(props.Content); i += 2 {
			name := props.Content[i].Value
			child := b.build(props.Content[i+1], false)
			if child == nil {
				valid = false
				continue
			}
			node.Properties = append(node.Properties, schema.Prop(name, child))
		}
	}

	if req, found := kw["required"]; found {
		if !b.markRequired(node, req) {
			valid = false
		}
	}

	if ap, found := kw["additionalProperties"]; found {
		switch {
		case ap.Kind == yaml.ScalarNode && ap.Tag == "!!bool":
			var open bool
			_ = ap.Decode(&open)
			if open {
				node = node.Open()
			}
		case ap.Kind == yaml.MappingNode || ap.Kind == yaml.AliasNode:
			additional := b.build(ap, false)
			if additional == nil {
				valid = false
			} else {
				node = node.WithAdditional(additional)
			}
		default:
			b.errorf(ap, "additionalProperties must be a boolean or a schema")
			valid = false
		}
	}

	if g, found := kw["guidance"]; found {
		if text, ok := b.stringValue(g, "guidance"); ok {
			node = node.WithGuidance(text)
		}
	}

	if pg, found := kw["propertyGuidance"]; found {
		if pg.Kind != yaml.MappingNode {
			b.errorf(pg, "propertyGuidance must be a mapping, got %s", nodeKindName(pg))
			valid = false
		} else {
			for i := 0; i+1 < len(pg.Content); i += 2 {
				if text, ok := b.stringValue(pg.Content[i+1], "propertyGuidance"); ok {
					node = node.WithPropertyGuidance(pg.Content[i].Value, text)
				}
			}
		}
	}

	if !valid {
		return nil
	}
	return node
}

func (b *builder) markRequired(node *schema.Node, req *yaml.Node) bool {
	if req.Kind != yaml.SequenceNode {
		b.errorf(req, "required must be a list of property names")
		return false
	}
	ok := true
	for _, item := range req.Content {
		name, isString := b.stringValue(item, "required")
		if !isString {
			ok = false
			continue
		}
		found := false
		for i := range node.Properties {
			if node.Properties[i].Name == name {
				node.Properties[i].Required = true
				found = true
			}
		}
		if !found {
			b.errors.AddErrorWithSuggestion(ErrorTypeStructural,
				fmt.Sprintf("Required property %q is not declared in properties", name),
				b.location(item),
				SuggestKeyword(name, node.PropertyNames()))
			ok = false
		}
	}
	return ok
}

func (b *builder) buildArray(kw map[string]*yaml.Node) *schema.Node {
	items, found := kw["items"]
	if !found {
		return schema.Array(nil)
	}
	child := b.build(items, false)
	if child == nil {
		return nil
	}
	return schema.Array(child)
}

func (b *builder) buildInstance(n *yaml.Node) *schema.Node {
	name, ok := b.stringValue(n, "instanceof")
	if !ok {
		return nil
	}
	switch name {
	case "RegExp":
		return schema.RegExp()
	case "Function":
		return schema.Function()
	}
	b.errors.AddErrorWithSuggestion(ErrorTypeStructural,
		fmt.Sprintf("Unknown instanceof %q", name),
		b.location(n),
		SuggestKeyword(name, instanceNames))
	return nil
}

func (b *builder) buildEnum(n *yaml.Node) *schema.Node {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		b.errorf(n, "enum must be a non-empty list")
		return nil
	}
	values := make([]any, 0, len(n.Content))
	for _, item := range n.Content {
		var v any
		if err := item.Decode(&v); err != nil {
			b.errorf(item, "Invalid enum value: %v", err)
			return nil
		}
		values = append(values, v)
	}
	return schema.Enum(values...)
}

func (b *builder) buildUnion(n *yaml.Node, keyword string) *schema.Node {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		b.errorf(n, "%s must be a non-empty list of schemas", keyword)
		return nil
	}
	alternatives := make([]*schema.Node, 0, len(n.Content))
	valid := true
	for _, item := range n.Content {
		alt := b.build(item, false)
		if alt == nil {
			valid = false
			continue
		}
		alternatives = append(alternatives, alt)
	}
	if !valid {
		return nil
	}
	return schema.OneOf(alternatives...)
}

// wrapCheck turns node into a custom node when absolutePath or check is set.
func (b *builder) wrapCheck(n *yaml.Node, kw map[string]*yaml.Node, node *schema.Node) *schema.Node {
	ap, hasAbsolute := kw["absolutePath"]
	ck, hasCheck := kw["check"]
	hint, hasHint := kw["hint"]

	if hasAbsolute && hasCheck {
		b.errorf(n, "Conflicting schema keywords: absolutePath, check")
		return nil
	}
	if hasHint && !hasAbsolute && !hasCheck {
		b.errorf(hint, "hint requires absolutePath or check")
		return nil
	}

	var check *schema.Check
	switch {
	case hasAbsolute:
		var expect bool
		if ap.Kind != yaml.ScalarNode || ap.Tag != "!!bool" || ap.Decode(&expect) != nil {
			b.errorf(ap, "absolutePath must be a boolean")
			return nil
		}
		check = schema.AbsolutePathCheck(expect)
	case hasCheck:
		check = b.buildCheck(ck)
		if check == nil {
			return nil
		}
	default:
		return node
	}

	if hasHint {
		text, ok := b.stringValue(hint, "hint")
		if !ok {
			return nil
		}
		check = check.WithHint(text)
	}
	return schema.Custom(check, node)
}

// checkSpec is the "check" keyword: a registered id, or a CEL expression
// with its failure message.
type checkSpec struct {
	ID      string `yaml:"id"`
	Expr    string `yaml:"expr"`
	Message string `yaml:"message"`
}

func (b *builder) buildCheck(n *yaml.Node) *schema.Check {
	if n.Kind != yaml.MappingNode {
		b.errorf(n, "check must be a mapping with id or expr")
		return nil
	}
	var spec checkSpec
	if err := n.Decode(&spec); err != nil {
		b.errorf(n, "Invalid check: %v", err)
		return nil
	}

	if spec.Expr != "" {
		check, err := compileExpression(spec.ID, spec.Expr, spec.Message)
		if err != nil {
			b.errorf(n, "Invalid check expression %q: %v", spec.Expr, err)
			return nil
		}
		return check
	}

	if spec.ID == "" {
		b.errorf(n, "check must set id or expr")
		return nil
	}
	check, ok := b.checks[spec.ID]
	if !ok {
		b.errors.AddErrorWithSuggestion(ErrorTypeStructural,
			fmt.Sprintf("Unknown check %q", spec.ID),
			b.location(n),
			SuggestKeyword(spec.ID, b.checkIDs()))
		return nil
	}
	if spec.Message != "" {
		cp := *check
		message := spec.Message
		cp.Message = func(v any) string { return expandMessage(message, v) }
		check = &cp
	}
	return check
}

func (b *builder) checkIDs() []string {
	ids := make([]string, 0, len(b.checks))
	for id := range b.checks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (b *builder) stringValue(n *yaml.Node, keyword string) (string, bool) {
	if n.Kind != yaml.ScalarNode || n.Tag != "!!str" {
		b.errorf(n, "%s must be a string", keyword)
		return "", false
	}
	return n.Value, true
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func nodeKindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar " + strings.TrimPrefix(n.Tag, "!!")
	case yaml.AliasNode:
		return "alias"
	}
	return "document"
}

func isBareCheck(kw map[string]*yaml.Node) bool {
	return kw["check"] != nil && kw["absolutePath"] == nil && kw["items"] == nil &&
		!hasAny(kw, kindKeywords) && !hasAny(kw, objectKeywords)
}

func hasAny(kw map[string]*yaml.Node, keys []string) bool {
	for _, k := range keys {
		if _, ok := kw[k]; ok {
			return true
		}
	}
	return false
}
