package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/CubeSugarZhang/webpack/pkg/validation"
)

// Report is the outcome of one validation run.
type Report struct {
	RunID          string        `json:"run_id"`
	Trigger        string        `json:"trigger,omitempty"`
	Files          []string      `json:"files"`
	Valid          bool          `json:"valid"`
	Configurations int           `json:"configurations"`
	Entries        []Entry       `json:"violations,omitempty"`
	Text           string        `json:"report,omitempty"`
	Duration       time.Duration `json:"-"`
}

// Entry is one top-level report entry.
type Entry struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// String returns the formatted report, or a one-line summary when the run
// found no violations.
func (r *Report) String() string {
	if !r.Valid {
		return r.Text
	}
	noun := "configurations"
	if r.Configurations == 1 {
		noun = "configuration"
	}
	return fmt.Sprintf("%d %s valid (%s)", r.Configurations, noun, strings.Join(r.Files, ", "))
}

// Columns implements cli.Table.
func (r *Report) Columns() []string {
	return []string{"path", "kind", "message"}
}

// Rows implements cli.Table.
func (r *Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		rows = append(rows, []string{e.Path, e.Kind, e.Message})
	}
	return rows
}

func newEntries(violations []validation.Violation) []Entry {
	entries := make([]Entry, 0, len(violations))
	for _, v := range violations {
		entries = append(entries, Entry{
			Path:    v.Path.String(),
			Kind:    string(v.Kind),
			Message: strings.TrimPrefix(validation.FormatViolation(v), " - "),
		})
	}
	return entries
}

// topLevelProperty names the configuration property a violation belongs
// to, or "" for violations on the configuration itself.
func topLevelProperty(v validation.Violation) string {
	for _, s := range v.Path.Segments() {
		if !s.IsIndex {
			return s.Name
		}
	}
	return v.Property
}
