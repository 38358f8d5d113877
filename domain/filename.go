package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	unsafeTitleChars = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
	titleHeading     = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

const fallbackFilenameStem = "documento"

// GenerateFilename derives a document filename from its title and creation
// date, e.g. "Sprint Planning Q1" -> "Sprint_Planning_Q1_2024-01-15.md".
func GenerateFilename(title string, createdAt time.Time) string {
	stem := unsafeTitleChars.ReplaceAllString(title, "")
	stem = whitespaceRun.ReplaceAllString(strings.TrimSpace(stem), "_")
	if stem == "" {
		stem = fallbackFilenameStem
	}
	return fmt.Sprintf("%s_%s.md", stem, createdAt.Format("2006-01-02"))
}

// UniqueFilename returns name, or name with a numeric suffix before the
// extension, such that taken reports false for it.
func UniqueFilename(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	stem := strings.TrimSuffix(name, ".md")
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d.md", stem, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

// TitleFromContent returns the text of the first "# " heading, falling back
// to the filename without its extension.
func TitleFromContent(content, filename string) string {
	if m := titleHeading.FindStringSubmatch(content); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}
	return strings.TrimSuffix(filename, ".md")
}
