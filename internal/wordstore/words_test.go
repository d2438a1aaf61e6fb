package wordstore

import (
	"reflect"
	"strings"
	"testing"
)

func TestReadWords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "empty file",
			content: "",
			want:    nil,
		},
		{
			name:    "only whitespace",
			content: "   \n\t\r\n   ",
			want:    nil,
		},
		{
			name:    "plain words",
			content: "apple\ncat\ndog",
			want:    []string{"apple", "cat", "dog"},
		},
		{
			name:    "blank lines and padding",
			content: "\n  apple  \n\n\tcat\n\n",
			want:    []string{"apple", "cat"},
		},
		{
			name:    "windows line endings",
			content: "ябълка\r\nкотка\r\nкуче",
			want:    []string{"ябълка", "котка", "куче"},
		},
		{
			name:    "commas are not separators",
			content: "one, two\nthree,four",
			want:    []string{"one, two", "three,four"},
		},
		{
			name:    "byte order mark",
			content: "\uFEFFapple\ncat",
			want:    []string{"apple", "cat"},
		},
		{
			name:    "duplicates kept",
			content: "a\na\nb",
			want:    []string{"a", "a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadWords(strings.NewReader(tt.content))
			if err != nil {
				t.Fatalf("ReadWords() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadWords() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatWords(t *testing.T) {
	got := FormatWords([]string{"a", "b", "c"})
	if got != "a\nb\nc" {
		t.Errorf("FormatWords() = %q, want %q", got, "a\nb\nc")
	}

	if got := FormatWords(nil); got != "" {
		t.Errorf("FormatWords(nil) = %q, want empty", got)
	}
}

func TestParseWordsLongLine(t *testing.T) {
	long := strings.Repeat("x", maxLineLength+10)
	got := ParseWords("short\n" + long + "\n")
	if len(got) != 2 || got[0] != "short" || got[1] != long {
		t.Errorf("ParseWords() with an overlong line returned %d words", len(got))
	}
}

func TestCleanWord(t *testing.T) {
	if _, err := cleanWord("   "); err != ErrEmptyWord {
		t.Errorf("cleanWord(blank) error = %v, want ErrEmptyWord", err)
	}
	if _, err := cleanWord("a\nb"); err != ErrMultilineWord {
		t.Errorf("cleanWord(multiline) error = %v, want ErrMultilineWord", err)
	}
	if got, err := cleanWord("  word "); err != nil || got != "word" {
		t.Errorf("cleanWord() = %q, %v", got, err)
	}
}
