package wordstore

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineLength bounds a single word line; lists are short lines but
// pasted imports may carry long phrases
const maxLineLength = 1 << 20

// ReadWords reads a word list: one word per line, surrounding whitespace
// trimmed, blank lines dropped. Both \n and \r\n line endings are accepted.
func ReadWords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var words []string
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		if line = strings.TrimSpace(line); line != "" {
			words = append(words, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read words: %w", err)
	}

	return words, nil
}

// ParseWords is ReadWords for in-memory content
func ParseWords(content string) []string {
	// strings.Reader never fails, only overlong lines can
	words, err := ReadWords(strings.NewReader(content))
	if err != nil {
		return splitWords(content)
	}
	return words
}

// FormatWords serializes words newline-joined without a trailing blank line
func FormatWords(words []string) string {
	return strings.Join(words, "\n")
}

// splitWords is the slow path for content with lines longer than the
// scanner buffer
func splitWords(content string) []string {
	var words []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			words = append(words, line)
		}
	}
	return words
}

// cleanWord trims user input for a word
func cleanWord(word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", ErrEmptyWord
	}
	if strings.ContainsAny(word, "\r\n") {
		return "", ErrMultilineWord
	}
	return word, nil
}
