package validation

import "strings"

const (
	// DefaultHeader opens every report.
	DefaultHeader = "Invalid configuration object."

	entryBullet   = " - "
	detailBullet  = " * "
	detailsLabel  = "Details:"
	continuation  = "   "
	missingPhrase = " misses the property '"
	unknownPhrase = " has an unknown property '"
	validPhrase   = "'. These properties are valid:\n"
)

// Format renders grouped violations under header. An empty header uses
// DefaultHeader. The output is deterministic for a given input.
func Format(header string, groups []Group) string {
	if header == "" {
		header = DefaultHeader
	}

	var sb strings.Builder
	sb.WriteString(header)
	for _, g := range groups {
		for _, v := range g.Violations {
			sb.WriteString("\n")
			sb.WriteString(FormatViolation(v))
		}
	}
	return sb.String()
}

// FormatViolation renders one top-level report entry, including its Details
// block for union and enum mismatches.
func FormatViolation(v Violation) string {
	text := Statement(v)
	if len(v.Details) > 0 {
		var sb strings.Builder
		sb.WriteString(text)
		sb.WriteString("\n")
		sb.WriteString(detailsLabel)
		for _, d := range v.Details {
			sb.WriteString("\n")
			sb.WriteString(detailBullet)
			sb.WriteString(indent(Statement(d), continuation))
		}
		text = sb.String()
	}
	return entryBullet + indent(text, continuation)
}

// Statement renders v as a single statement without bullets or Details,
// e.g. "configuration.entry should be a string.".
func Statement(v Violation) string {
	switch v.Kind {
	case KindCustom:
		return v.Path.String() + ": " + v.Message
	case KindMissingProperty:
		parent, _, _ := v.Path.Parent()
		return parent.String() + missingPhrase + v.Property + "'.\n" + v.Expected
	case KindUnknownProperty:
		return v.Path.String() + unknownPhrase + v.Property + validPhrase + v.Expected
	}
	return v.Path.String() + " " + v.Expected
}

// indent prefixes every line after the first.
func indent(text, prefix string) string {
	return strings.ReplaceAll(strings.TrimSuffix(text, "\n"), "\n", "\n"+prefix)
}
