package ingestion

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(` {2,}`)

// CleanText normalizes extracted resume text: lines are trimmed, empty lines
// dropped, and runs of spaces collapsed.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}

	return strings.TrimSpace(multiSpace.ReplaceAllString(strings.Join(kept, "\n"), " "))
}
