package batch

import (
	"path/filepath"
	"reflect"
	"testing"

	"codeberg.org/snonux/wordloop/internal/testutil"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []WordEntry
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "words with translations",
			fileContent: `ябълка = apple
котка = cat
куче = dog`,
			want: []WordEntry{
				{Word: "ябълка", Translation: "apple"},
				{Word: "котка", Translation: "cat"},
				{Word: "куче", Translation: "dog"},
			},
		},
		{
			name: "mixed format with blank lines",
			fileContent: `
ябълка

котка = cat  

  куче  
`,
			want: []WordEntry{
				{Word: "ябълка"},
				{Word: "котка", Translation: "cat"},
				{Word: "куче"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "ябълка\r\nкотка = cat\r\n",
			want: []WordEntry{
				{Word: "ябълка"},
				{Word: "котка", Translation: "cat"},
			},
		},
		{
			name:        "multiple equals signs",
			fileContent: `test = word = with = equals`,
			want: []WordEntry{
				{Word: "test", Translation: "word = with = equals"},
			},
		},
		{
			name:        "translation without word is skipped",
			fileContent: "= apple\nхляб = bread",
			want: []WordEntry{
				{Word: "хляб", Translation: "bread"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "glossary.txt")
			testutil.CreateTestFile(t, path, []byte(tt.fileContent))

			got, err := ReadBatchFile(path)
			if err != nil {
				t.Fatalf("ReadBatchFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile_FileNotFound(t *testing.T) {
	if _, err := ReadBatchFile("/nonexistent/file.txt"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestNeedsTranslation(t *testing.T) {
	if !(WordEntry{Word: "a"}).NeedsTranslation() {
		t.Error("entry without translation should need one")
	}
	if (WordEntry{Word: "a", Translation: "b"}).NeedsTranslation() {
		t.Error("entry with translation should not need one")
	}
}

func TestGlossary(t *testing.T) {
	entries := FromWords([]string{"a = 1", "b", "a = 2", "c = 3"})
	got := Glossary(entries)
	want := map[string]string{"a": "2", "c": "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Glossary() = %v, want %v", got, want)
	}
}
