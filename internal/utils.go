package internal

import (
	"path/filepath"
	"strings"
)

// CleanListName turns a file name or user input into a list name:
// surrounding whitespace is trimmed and a trailing extension is stripped
func CleanListName(s string) string {
	name := strings.TrimSpace(filepath.Base(strings.TrimSpace(s)))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	return strings.TrimSpace(name)
}

// SanitizeFilename creates a safe filename from a list name
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAllowedRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAllowedRune rejects path separators and control characters,
// everything else (including non-Latin letters) is kept
func isAllowedRune(r rune) bool {
	switch r {
	case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
		return false
	}
	return r >= 0x20 && r != 0x7f
}
