package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"codeberg.org/snonux/wordloop/internal/cli"
	"codeberg.org/snonux/wordloop/internal/drill"
	"codeberg.org/snonux/wordloop/internal/settings"
	"codeberg.org/snonux/wordloop/internal/testutil"
)

func setupProcessor(t *testing.T, flags *cli.Flags) (*Processor, *viper.Viper) {
	t.Helper()
	dir := testutil.CreateTestDirectory(t)

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "wordloop.yaml"))
	v.Set(settings.KeyListsDir, filepath.Join(dir, "lists"))
	v.Set(settings.KeyStatsDB, filepath.Join(dir, "stats.db"))

	if flags == nil {
		flags = cli.NewFlags()
	}
	p, err := newProcessor(context.Background(), flags, v)
	if err != nil {
		t.Fatalf("newProcessor() error = %v", err)
	}
	t.Cleanup(func() { p.Close() })

	testutil.CreateTestList(t, p.settings.ListsDir, "Fruits", "apple", "banana", "cherry")
	return p, v
}

func TestNewProcessor(t *testing.T) {
	p, _ := setupProcessor(t, nil)

	if p.store == nil {
		t.Fatal("Store not initialized")
	}
	if p.settings.Count != 1 {
		t.Errorf("Count = %d, want 1", p.settings.Count)
	}
	if _, err := os.Stat(p.settings.ListsDir); err != nil {
		t.Errorf("lists directory not created: %v", err)
	}
}

func TestListsMarksSelection(t *testing.T) {
	p, _ := setupProcessor(t, nil)
	p.settings.Selected = []string{"Fruits"}

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := p.Lists(); err != nil {
			t.Errorf("Lists() error = %v", err)
		}
	})

	if !strings.Contains(stdout, "* Fruits") {
		t.Errorf("selected list not marked:\n%s", stdout)
	}
	if !strings.Contains(stdout, "(bundled)") {
		t.Errorf("bundled lists missing:\n%s", stdout)
	}
}

func TestShowSortedWithCanonicalIndex(t *testing.T) {
	flags := cli.NewFlags()
	flags.Sort = "reverse"
	p, _ := setupProcessor(t, flags)

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := p.Show("Fruits"); err != nil {
			t.Errorf("Show() error = %v", err)
		}
	})

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("Show() printed %d lines:\n%s", len(lines), stdout)
	}
	if fields := strings.Fields(lines[0]); fields[0] != "2" || fields[1] != "cherry" {
		t.Errorf("first line = %q, want index 2 cherry", lines[0])
	}
}

func TestShowUnknownSort(t *testing.T) {
	flags := cli.NewFlags()
	flags.Sort = "random"
	p, _ := setupProcessor(t, flags)

	if err := p.Show("Fruits"); err == nil {
		t.Error("Expected error for unknown sort mode")
	}
}

func TestAddEditRemove(t *testing.T) {
	p, _ := setupProcessor(t, nil)

	testutil.CaptureOutput(t, func() {
		if err := p.Add("Fruits", "date", "elder"); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if err := p.Edit("Fruits", "0", "apricot"); err != nil {
			t.Fatalf("Edit() error = %v", err)
		}
		if err := p.Remove("Fruits", "1", "2"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
	})

	words, err := p.store.Load("Fruits")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"apricot", "date", "elder"}
	if strings.Join(words, ",") != strings.Join(want, ",") {
		t.Errorf("words = %v, want %v", words, want)
	}

	if err := p.Edit("Fruits", "x", "y"); err == nil {
		t.Error("Expected error for invalid index")
	}
}

func TestAddCreatesMissingList(t *testing.T) {
	p, _ := setupProcessor(t, nil)

	testutil.CaptureOutput(t, func() {
		if err := p.Add("Colors", "red"); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	})
	testutil.AssertFileContains(t, filepath.Join(p.settings.ListsDir, "Colors.csv"), "red")
}

func TestSelectPersistsRange(t *testing.T) {
	flags := cli.NewFlags()
	flags.Lower = 0.5
	flags.Upper = 1
	p, v := setupProcessor(t, flags)

	testutil.CaptureOutput(t, func() {
		if err := p.Select("Fruits"); err != nil {
			t.Fatalf("Select() error = %v", err)
		}
	})

	testutil.AssertFileExists(t, v.ConfigFileUsed())
	reread := viper.New()
	reread.SetConfigFile(v.ConfigFileUsed())
	if err := reread.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	s, err := settings.Load(reread)
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsSelected("Fruits") {
		t.Errorf("Selected = %v, want Fruits", s.Selected)
	}
	if r := s.Ranges["Fruits"]; r.Lower != 0.5 || r.Upper != 1 {
		t.Errorf("range = %v, want [0.5, 1]", r)
	}
}

func TestDeleteForgetsList(t *testing.T) {
	p, _ := setupProcessor(t, nil)
	p.settings.Selected = []string{"Fruits"}

	testutil.CaptureOutput(t, func() {
		if err := p.Delete("Fruits"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
	})

	if p.settings.IsSelected("Fruits") {
		t.Error("deleted list still selected")
	}
	if _, ok := p.settings.Ranges["Fruits"]; ok {
		t.Error("deleted list still has a range")
	}
	testutil.AssertFileNotExists(t, filepath.Join(p.settings.ListsDir, "Fruits.csv"))
}

func TestRenameKeepsSelection(t *testing.T) {
	p, _ := setupProcessor(t, nil)
	p.settings.Selected = []string{"Fruits"}

	testutil.CaptureOutput(t, func() {
		if err := p.Rename("Fruits", "Obst"); err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
	})

	if !p.settings.IsSelected("Obst") || p.settings.IsSelected("Fruits") {
		t.Errorf("Selected = %v, want [Obst]", p.settings.Selected)
	}
}

func TestImportReportsFailures(t *testing.T) {
	p, _ := setupProcessor(t, nil)
	src := filepath.Join(t.TempDir(), "Colors.txt")
	testutil.CreateTestFile(t, src, []byte("red\n\ngreen\n"))

	var err error
	stdout, _ := testutil.CaptureOutput(t, func() {
		err = p.Import(src, filepath.Join(t.TempDir(), "missing.csv"))
	})

	if err == nil {
		t.Error("Expected error for missing import file")
	}
	if !strings.Contains(stdout, "as Colors (2 words)") {
		t.Errorf("import summary = %q", stdout)
	}
	if !p.store.Exists("Colors") {
		t.Error("imported list missing")
	}
}

func TestPrintNextRecordsStats(t *testing.T) {
	flags := cli.NewFlags()
	flags.Lists = []string{"Fruits"}
	flags.Count = 2
	p, _ := setupProcessor(t, flags)
	p.settings.Count = 2

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := p.PrintNext(); err != nil {
			t.Fatalf("PrintNext() error = %v", err)
		}
	})

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("PrintNext() printed %q", stdout)
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, "(Fruits)") {
			t.Errorf("line %q misses list name", line)
		}
	}

	total, err := p.statsLog().Total(context.Background())
	if err != nil || total != 2 {
		t.Errorf("recorded %d words (%v), want 2", total, err)
	}
}

func TestPrintNextWithoutSelection(t *testing.T) {
	flags := cli.NewFlags()
	flags.NoStats = true
	p, _ := setupProcessor(t, flags)

	err := p.PrintNext()
	if !errors.Is(err, drill.ErrNoWords) {
		t.Errorf("PrintNext() error = %v, want ErrNoWords", err)
	}
}

func TestExportAnkiCSV(t *testing.T) {
	flags := cli.NewFlags()
	flags.AnkiCSV = true
	p, _ := setupProcessor(t, flags)

	glossary := filepath.Join(t.TempDir(), "glossary.txt")
	testutil.CreateTestFile(t, glossary, []byte("apple = Apfel\n"))
	flags.Glossary = glossary

	out := filepath.Join(t.TempDir(), "fruits.csv")
	var path string
	var err error
	testutil.CaptureOutput(t, func() {
		path, err = p.ExportAnki("Fruits", out)
	})
	if err != nil {
		t.Fatalf("ExportAnki() error = %v", err)
	}
	if path != out {
		t.Errorf("path = %s, want %s", path, out)
	}
	testutil.AssertFileContains(t, out, "apple,Apfel")
	testutil.AssertFileContains(t, out, "cherry")
}

func TestExportAnkiAPKG(t *testing.T) {
	flags := cli.NewFlags()
	flags.NoStats = true
	p, _ := setupProcessor(t, flags)

	out := filepath.Join(t.TempDir(), "fruits.apkg")
	testutil.CaptureOutput(t, func() {
		if _, err := p.ExportAnki("Fruits", out); err != nil {
			t.Fatalf("ExportAnki() error = %v", err)
		}
	})
	testutil.AssertFileExists(t, out)
}

func TestTranslateWithMock(t *testing.T) {
	p, _ := setupProcessor(t, nil)
	mock := &testutil.MockTranslator{Translations: map[string]string{"apple": "Apfel"}}
	p.translator = mock

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := p.Translate("apple"); err != nil {
			t.Fatalf("Translate() error = %v", err)
		}
	})
	if strings.TrimSpace(stdout) != "apple = Apfel" {
		t.Errorf("Translate() printed %q", stdout)
	}
}

func TestStatsEmpty(t *testing.T) {
	p, _ := setupProcessor(t, nil)

	stdout, _ := testutil.CaptureOutput(t, func() {
		if err := p.Stats(); err != nil {
			t.Fatalf("Stats() error = %v", err)
		}
	})
	if !strings.Contains(stdout, "No words shown yet") {
		t.Errorf("Stats() printed %q", stdout)
	}
}

func TestArchive(t *testing.T) {
	p, _ := setupProcessor(t, nil)

	var err error
	stdout, _ := testutil.CaptureOutput(t, func() {
		err = p.Archive()
	})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if !strings.Contains(stdout, "Lists archived to:") {
		t.Errorf("Archive() printed %q", stdout)
	}
}
