package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// RootName is how the configuration root is rendered in reports.
const RootName = "configuration"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var bracketEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Segment is one step of a Path: a property name or an array index.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

// String renders the segment as a property or index accessor.
func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	if identifierPattern.MatchString(s.Name) {
		return "." + s.Name
	}
	return "['" + bracketEscaper.Replace(s.Name) + "']"
}

// Path addresses a location inside a configuration value. Paths are
// immutable: Property and Index return new paths and never share backing
// storage with their parent.
type Path struct {
	segments []Segment
}

// Root returns the empty path, which renders as "configuration".
func Root() Path {
	return Path{}
}

// Property returns p extended by a property accessor.
func (p Path) Property(name string) Path {
	return p.extend(Segment{Name: name})
}

// Index returns p extended by an array index accessor.
func (p Path) Index(i int) Path {
	return p.extend(Segment{Index: i, IsIndex: true})
}

func (p Path) extend(s Segment) Path {
	segments := make([]Segment, len(p.segments)+1)
	copy(segments, p.segments)
	segments[len(p.segments)] = s
	return Path{segments: segments}
}

// Parent returns the path without its last segment, and that segment.
// ok is false for the root path.
func (p Path) Parent() (parent Path, last Segment, ok bool) {
	if len(p.segments) == 0 {
		return p, Segment{}, false
	}
	n := len(p.segments) - 1
	return Path{segments: p.segments[:n:n]}, p.segments[n], true
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// String renders the path, e.g. "configuration.module.rules[0]['my-key']".
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString(RootName)
	for _, s := range p.segments {
		sb.WriteString(s.String())
	}
	return sb.String()
}
