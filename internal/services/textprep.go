package services

import (
	"strings"
	"unicode/utf8"
)

// CleanText normalizes extracted resume text: trims each line and drops blank
// ones so prompts stay compact.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}

// TruncateForPrompt caps text at maxRunes, preferring to cut at a paragraph
// boundary so a resume is not sliced mid-sentence before being sent to the
// generative API.
func TruncateForPrompt(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:maxRunes])

	if idx := strings.LastIndex(cut, "\n\n"); idx > maxRunes/2 {
		return cut[:idx]
	}
	if idx := strings.LastIndexAny(cut, ".!?"); idx > maxRunes/2 {
		return cut[:idx+1]
	}
	return cut
}
