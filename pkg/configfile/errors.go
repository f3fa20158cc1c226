package configfile

import (
	"errors"
	"fmt"
)

// ErrNoConfiguration is returned when a file contains no YAML document.
var ErrNoConfiguration = errors.New("no configuration found")

// LoadError describes why a configuration file could not be loaded.
// Line and Column are 1-based and zero when unknown.
type LoadError struct {
	Source  string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	loc := e.Source
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", e.Source, e.Line, e.Column)
	}
	if loc == "" {
		return e.Message
	}
	return loc + ": " + e.Message
}

// Unwrap returns the underlying error, if any.
func (e *LoadError) Unwrap() error {
	return e.Err
}
