package configfile

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CubeSugarZhang/webpack/pkg/value"
)

const (
	tagRegexp   = "!regexp"
	tagFunction = "!function"
	tagMerge    = "!!merge"
)

// decoder turns a yaml.Node tree into configuration values. Mappings become
// *value.Map so key order survives into reports.
type decoder struct {
	source string

	// aliases being expanded, to reject self-referencing anchors.
	expanding map[*yaml.Node]bool
}

func newDecoder(source string) *decoder {
	return &decoder{source: source, expanding: make(map[*yaml.Node]bool)}
}

func (d *decoder) decode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.decode(n.Content[0])
	case yaml.AliasNode:
		if d.expanding[n.Alias] {
			return nil, d.errorf(n, "alias *%s refers to itself", n.Value)
		}
		d.expanding[n.Alias] = true
		defer delete(d.expanding, n.Alias)
		return d.decode(n.Alias)
	case yaml.MappingNode:
		return d.mapping(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := d.decode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		return d.scalar(n)
	}
	return nil, d.errorf(n, "unsupported YAML node kind %d", n.Kind)
}

func (d *decoder) mapping(n *yaml.Node) (*value.Map, error) {
	m := value.NewMap()
	var merged []*value.Map

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]

		if key.Tag == tagMerge {
			sources, err := d.mergeSources(val)
			if err != nil {
				return nil, err
			}
			merged = append(merged, sources...)
			continue
		}
		if key.Kind != yaml.ScalarNode {
			return nil, d.errorf(key, "mapping keys must be scalars")
		}

		v, err := d.decode(val)
		if err != nil {
			return nil, err
		}
		m.Set(key.Value, v)
	}

	// Explicit keys win over merged ones.
	for _, src := range merged {
		for _, k := range src.Keys() {
			if _, ok := m.Get(k); ok {
				continue
			}
			v, _ := src.Get(k)
			m.Set(k, v)
		}
	}
	return m, nil
}

func (d *decoder) mergeSources(n *yaml.Node) ([]*value.Map, error) {
	if n.Kind == yaml.SequenceNode {
		var out []*value.Map
		for _, item := range n.Content {
			srcs, err := d.mergeSources(item)
			if err != nil {
				return nil, err
			}
			out = append(out, srcs...)
		}
		return out, nil
	}

	v, err := d.decode(n)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*value.Map)
	if !ok {
		return nil, d.errorf(n, "merge key requires a mapping")
	}
	return []*value.Map{m}, nil
}

func (d *decoder) scalar(n *yaml.Node) (any, error) {
	switch n.Tag {
	case tagRegexp:
		re, err := compileRegexp(n.Value)
		if err != nil {
			return nil, d.wrap(n, err, "invalid !regexp %q", n.Value)
		}
		return re, nil
	case tagFunction:
		return value.Function{Name: strings.TrimSpace(n.Value)}, nil
	case "!!str", "!!timestamp", "!!binary":
		return n.Value, nil
	case "!!null", "!!bool", "!!int", "!!float":
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, d.wrap(n, err, "invalid %s value %q", strings.TrimPrefix(n.Tag, "!!"), n.Value)
		}
		return v, nil
	}
	return nil, d.errorf(n, "unsupported tag %s", n.Tag)
}

// compileRegexp accepts either a bare pattern or JavaScript literal notation
// "/pattern/flags". The i, m and s flags map onto Go's inline flags; g, u and
// y have no meaning for matching and are dropped. Anything else after the
// closing slash means the text is a bare pattern.
func compileRegexp(src string) (*regexp.Regexp, error) {
	if pattern, ok := literalPattern(src); ok {
		return regexp.Compile(pattern)
	}
	return regexp.Compile(src)
}

func literalPattern(src string) (string, bool) {
	end := strings.LastIndex(src, "/")
	if len(src) < 2 || src[0] != '/' || end <= 0 {
		return "", false
	}
	var flags strings.Builder
	for _, f := range src[end+1:] {
		switch f {
		case 'i', 'm', 's':
			flags.WriteRune(f)
		case 'g', 'u', 'y':
		default:
			return "", false
		}
	}
	pattern := src[1:end]
	if flags.Len() > 0 {
		pattern = "(?" + flags.String() + ")" + pattern
	}
	return pattern, true
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	return &LoadError{
		Source:  d.source,
		Line:    n.Line,
		Column:  n.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

func (d *decoder) wrap(n *yaml.Node, err error, format string, args ...any) error {
	return &LoadError{
		Source:  d.source,
		Line:    n.Line,
		Column:  n.Column,
		Message: fmt.Sprintf(format, args...) + ": " + err.Error(),
		Err:     err,
	}
}
