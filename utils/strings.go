package utils

import "strings"

// NormalizeTitle trims title and falls back when nothing is left.
// Ví dụ: "  Hello " -> "Hello", "   " -> fallback
func NormalizeTitle(title, fallback string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return fallback
	}
	return title
}
