package utils

import (
	"regexp"
	"strings"
)

var space = regexp.MustCompile(`\s+`)

// CleanText removes extra whitespace and normalizes text
func CleanText(text string) string {
	return strings.TrimSpace(space.ReplaceAllString(text, " "))
}

// TruncateText truncates text to a maximum length in runes, appending "..."
func TruncateText(text string, maxLength int) string {
	runes := []rune(text)
	if maxLength <= 3 || len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength-3]) + "..."
}
