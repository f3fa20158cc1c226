package schema

import (
	"fmt"
	"regexp"

	"github.com/CubeSugarZhang/webpack/pkg/value"
)

// Check is a named predicate used by custom schema nodes. When Test fails the
// text built by Message replaces the generic report phrasing entirely.
type Check struct {
	// ID names the predicate, e.g. "absolutePath".
	ID string

	// Test reports whether v satisfies the predicate.
	Test func(v any) bool

	// Message builds the report text for a value that failed Test.
	Message func(v any) string

	// Hint is an optional extra line appended to Message.
	Hint string
}

// WithHint returns a copy of c with an extra explanatory line.
func (c *Check) WithHint(hint string) *Check {
	cp := *c
	cp.Hint = hint
	return &cp
}

// Explain returns the full report text for a value that failed the check.
func (c *Check) Explain(v any) string {
	msg := fmt.Sprintf("does not satisfy %s", c.ID)
	if c.Message != nil {
		msg = c.Message(v)
	}
	if c.Hint != "" {
		msg += "\n" + c.Hint
	}
	return msg
}

// absolutePathPattern matches POSIX absolute paths and Windows drive paths.
var absolutePathPattern = regexp.MustCompile(`^(?:[A-Za-z]:\\|/)`)

// IsAbsolutePath reports whether p is absolute on either POSIX or Windows.
func IsAbsolutePath(p string) bool {
	return absolutePathPattern.MatchString(p)
}

// AbsolutePathCheck returns the check behind AbsolutePath. Non-string values
// pass; pair it with a string base schema.
func AbsolutePathCheck(expectAbsolute bool) *Check {
	id := "absolutePath"
	if !expectAbsolute {
		id = "relativePath"
	}
	return &Check{
		ID: id,
		Test: func(v any) bool {
			s, ok := value.String(v)
			if !ok {
				return true
			}
			return IsAbsolutePath(s) == expectAbsolute
		},
		Message: func(v any) string {
			if expectAbsolute {
				return fmt.Sprintf("The provided value %s is not an absolute path!", value.Format(v))
			}
			return fmt.Sprintf("A relative path is expected. However the provided value %s is an absolute path!", value.Format(v))
		},
	}
}
