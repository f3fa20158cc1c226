package parser

import (
	"fmt"
	"strings"
)

// ExtractContext returns the lines of source around location, numbered and
// with the offending line marked by "->" and its column by "^".
func ExtractContext(source []byte, location Location, contextLines int) string {
	if !location.IsValid() || len(source) == 0 {
		return ""
	}

	lines := strings.Split(strings.TrimSuffix(string(source), "\n"), "\n")
	errorLine := location.Line - 1
	if errorLine >= len(lines) {
		return ""
	}

	startLine := max(errorLine-contextLines, 0)
	endLine := min(errorLine+contextLines, len(lines)-1)

	var sb strings.Builder
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		lineNumStr := fmt.Sprintf("%*d", maxLineNumWidth, i+1)
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}

		sb.WriteString(fmt.Sprintf("%s %s | %s\n", prefix, lineNumStr, lines[i]))

		if i == errorLine && location.Column > 0 {
			padding := strings.Repeat(" ", location.Column-1)
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", maxLineNumWidth), padding))
		}
	}

	return sb.String()
}

// withContext attaches two lines of surrounding source to every error.
func withContext(el *ErrorList, source []byte) *ErrorList {
	for _, err := range el.Errors {
		if err.Context == "" {
			err.Context = ExtractContext(source, err.Location, 2)
		}
	}
	return el
}
