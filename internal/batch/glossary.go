// Package batch reads glossary files: word lists where a line may carry
// its translation as "word = translation". They feed the bulk export to
// Anki and prefill translations.
package batch

import (
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/snonux/wordloop/internal/wordstore"
)

// WordEntry is a word with an optional translation
type WordEntry struct {
	Word        string
	Translation string
}

// NeedsTranslation reports whether the translation still has to be looked up
func (e WordEntry) NeedsTranslation() bool {
	return e.Translation == ""
}

// ParseLine splits "word = translation". Only the first '=' separates, so
// translations may contain further '=' signs. Lines without a word, like
// "= apple", are rejected.
func ParseLine(line string) (WordEntry, bool) {
	word, translation, _ := strings.Cut(line, "=")
	entry := WordEntry{
		Word:        strings.TrimSpace(word),
		Translation: strings.TrimSpace(translation),
	}
	return entry, entry.Word != ""
}

// FromWords parses every list word as a glossary line
func FromWords(words []string) []WordEntry {
	var entries []WordEntry
	for _, w := range words {
		if entry, ok := ParseLine(w); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Parse reads glossary lines from r. Blank lines are skipped, CRLF is
// accepted.
func Parse(r io.Reader) ([]WordEntry, error) {
	lines, err := wordstore.ReadWords(r)
	if err != nil {
		return nil, err
	}
	return FromWords(lines), nil
}

// ReadBatchFile reads a glossary file
func ReadBatchFile(filename string) ([]WordEntry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer file.Close()

	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return entries, nil
}

// Glossary maps words to their known translations. Entries without a
// translation are left out; a later line wins over an earlier one.
func Glossary(entries []WordEntry) map[string]string {
	g := make(map[string]string)
	for _, e := range entries {
		if !e.NeedsTranslation() {
			g[e.Word] = e.Translation
		}
	}
	return g
}
