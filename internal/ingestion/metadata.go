package ingestion

import (
	"regexp"
	"strings"
)

var (
	emailPattern   = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern   = regexp.MustCompile(`\+?\d[\d\s\-()]{8,}\d`)
	nameLabel      = regexp.MustCompile(`(?i)^name\s*[:\-]\s*`)
	nameSeparators = regexp.MustCompile(`[|/\\]+`)
	nonNameChars   = regexp.MustCompile(`[^A-Za-z\s.\-']`)
	multiWhite     = regexp.MustCompile(`\s{2,}`)
	filenameUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
)

var resumeKeywords = []string{"experience", "education", "skills", "project", "responsibilities", "summary"}

// ExtractEmail returns the first email address found in the text.
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone returns the first phone-number-shaped token found in the text.
func ExtractPhone(text string) string {
	return phonePattern.FindString(text)
}

// ExtractName guesses the candidate name from resume text. It prefers an
// explicit "Name:" label in the first 30 lines, then falls back to the first
// clean line that is not an email, URL, or section header. Returns "" when
// nothing name-shaped is found.
func ExtractName(text string) string {
	if text == "" {
		return ""
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
		if len(lines) == 30 {
			break
		}
	}

	for _, line := range lines {
		if nameLabel.MatchString(line) {
			candidate := normalizeName(splitNameLine(nameLabel.ReplaceAllString(line, "")))
			if isValidName(candidate) {
				return candidate
			}
		}
	}

	for _, line := range lines {
		lowered := strings.ToLower(line)
		if strings.Contains(line, "@") || strings.Contains(lowered, "http") {
			continue
		}
		if strings.Contains(lowered, "resume") || strings.Contains(lowered, "curriculum") || strings.Contains(lowered, "cv") {
			continue
		}

		candidate := splitNameLine(line)
		for _, marker := range []string{"personal profile", "profile", "summary"} {
			if idx := strings.Index(strings.ToLower(candidate), marker); idx > 0 {
				candidate = strings.TrimSpace(candidate[:idx])
				break
			}
		}
		candidate = normalizeName(candidate)
		if isValidName(candidate) {
			return candidate
		}
	}
	return ""
}

// splitNameLine cuts off decorations appended after the name, like
// "Jane Doe | Backend Engineer" or "Jane Doe - Amsterdam".
func splitNameLine(line string) string {
	for _, sep := range []string{" - ", " – ", "|"} {
		if idx := strings.Index(line, sep); idx >= 0 {
			line = line[:idx]
		}
	}
	return strings.TrimSpace(line)
}

func normalizeName(value string) string {
	cleaned := nameSeparators.ReplaceAllString(value, " ")
	cleaned = strings.TrimSpace(nonNameChars.ReplaceAllString(cleaned, " "))
	return strings.TrimSpace(multiWhite.ReplaceAllString(cleaned, " "))
}

func isValidName(value string) bool {
	if value == "" || len(value) > 80 {
		return false
	}
	lowered := strings.ToLower(value)
	switch lowered {
	case "cv", "resume", "curriculum vitae":
		return false
	}
	for _, keyword := range []string{"profile", "summary", "experience", "education", "skills"} {
		if strings.Contains(lowered, keyword) {
			return false
		}
	}
	parts := strings.Fields(value)
	return len(parts) >= 2 && len(parts) <= 5
}

// IsLikelyResume reports whether the text looks like a resume: at least 200
// characters and two or more resume section keywords.
func IsLikelyResume(text string) bool {
	if len(text) < 200 {
		return false
	}
	lowered := strings.ToLower(text)
	found := 0
	for _, keyword := range resumeKeywords {
		if strings.Contains(lowered, keyword) {
			found++
		}
	}
	return found >= 2
}

// SafeFilename reduces a candidate name to a filesystem-safe token.
func SafeFilename(value string) string {
	name := filenameUnsafe.ReplaceAllString(strings.TrimSpace(value), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "candidate"
	}
	return name
}
