package wordstore

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"

	"codeberg.org/snonux/wordloop/internal/testutil"
)

func testDefaults() fstest.MapFS {
	return fstest.MapFS{
		"Animals.csv": {Data: []byte("cat\ndog\n\nbird\n")},
		"Colors.csv":  {Data: []byte("red\r\ngreen\r\nblue")},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewWithDefaults(filepath.Join(t.TempDir(), "lists"), testDefaults())
}

func TestNamesMergesUserAndBundled(t *testing.T) {
	s := newTestStore(t)
	testutil.CreateTestList(t, s.Dir(), "verbs", "go", "run")
	testutil.CreateTestList(t, s.Dir(), "Animals", "cow")
	testutil.CreateTestFile(t, filepath.Join(s.Dir(), "notes.txt"), []byte("ignored"))

	names, err := s.Names()
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	want := []string{"Animals", "Colors", "verbs"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Names() = %q, want %q", names, want)
	}
}

func TestNamesWithoutDirectory(t *testing.T) {
	s := newTestStore(t)
	names, err := s.Names()
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	if len(names) != 2 {
		t.Errorf("Names() = %q, want the two bundled lists", names)
	}
}

func TestLoadFallsBackToBundled(t *testing.T) {
	s := newTestStore(t)

	words, err := s.Load("Animals")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := []string{"cat", "dog", "bird"}; !reflect.DeepEqual(words, want) {
		t.Errorf("Load() = %q, want %q", words, want)
	}

	testutil.CreateTestList(t, s.Dir(), "Animals", "cow")
	words, err = s.Load("Animals")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := []string{"cow"}; !reflect.DeepEqual(words, want) {
		t.Errorf("Load() after user copy = %q, want %q", words, want)
	}
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load("nope"); !errors.Is(err, ErrListNotFound) {
		t.Errorf("Load() error = %v, want ErrListNotFound", err)
	}
}

func TestSaveWritesWithoutTrailingBlankLine(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save("verbs", []string{"go", "run"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	testutil.AssertFileContent(t, filepath.Join(s.Dir(), "verbs.csv"), []byte("go\nrun"))
}

func TestAdd(t *testing.T) {
	s := newTestStore(t)
	testutil.CreateTestList(t, s.Dir(), "verbs", "go")

	words, err := s.Add("verbs", "  run  ")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if want := []string{"go", "run"}; !reflect.DeepEqual(words, want) {
		t.Errorf("Add() = %q, want %q", words, want)
	}
	testutil.AssertFileContent(t, filepath.Join(s.Dir(), "verbs.csv"), []byte("go\nrun"))

	if _, err := s.Add("verbs", "   "); !errors.Is(err, ErrEmptyWord) {
		t.Errorf("Add(blank) error = %v, want ErrEmptyWord", err)
	}

	// duplicates are allowed in ordinary lists
	words, err = s.Add("verbs", "go")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if len(words) != 3 {
		t.Errorf("Add(duplicate) len = %d, want 3", len(words))
	}
}

func TestAddOwnVocabularyDeduplicates(t *testing.T) {
	s := newTestStore(t)

	for _, w := range []string{"serendipity", "ephemeral", "serendipity"} {
		if _, err := s.Add(OwnVocabulary, w); err != nil {
			t.Fatalf("Add(%q) error = %v", w, err)
		}
	}

	words, err := s.Load(OwnVocabulary)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := []string{"serendipity", "ephemeral"}; !reflect.DeepEqual(words, want) {
		t.Errorf("own vocabulary = %q, want %q", words, want)
	}
}

func TestEditAndDelete(t *testing.T) {
	s := newTestStore(t)
	testutil.CreateTestList(t, s.Dir(), "l", "a", "b", "c", "d")

	if _, err := s.Edit("l", 1, "B"); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if _, err := s.Edit("l", 9, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Edit(out of range) error = %v", err)
	}

	words, err := s.Delete("l", 0, 2, 42)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if want := []string{"B", "d"}; !reflect.DeepEqual(words, want) {
		t.Errorf("Delete() = %q, want %q", words, want)
	}
}

func TestCreate(t *testing.T) {
	s := newTestStore(t)

	if err := s.Create("  "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Create(blank) error = %v, want ErrEmptyName", err)
	}
	if err := s.Create("Animals"); !errors.Is(err, ErrListExists) {
		t.Errorf("Create(bundled) error = %v, want ErrListExists", err)
	}

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	if err := s.Create(" fresh "); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	testutil.AssertFileExists(t, filepath.Join(s.Dir(), "fresh.csv"))
	if err := s.Create("fresh"); !errors.Is(err, ErrListExists) {
		t.Errorf("Create(duplicate) error = %v, want ErrListExists", err)
	}
	if len(events) != 1 || events[0].Kind != EventCreated || events[0].Name != "fresh" {
		t.Errorf("events = %+v", events)
	}
}

func TestCreatedNameIsListed(t *testing.T) {
	tests := []struct {
		name    string
		wantErr error
	}{
		{"Week 1 Verbs", nil},
		{"Глаголи", nil},
		{"Week 1: Verbs", ErrInvalidName},
		{"a/b", ErrInvalidName},
		{`a\b`, ErrInvalidName},
		{"why?", ErrInvalidName},
		{".hidden", ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)

			err := s.Create(tt.name)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create(%q) error = %v, want %v", tt.name, err, tt.wantErr)
			}
			names, err := s.Names()
			if err != nil {
				t.Fatalf("Names() error = %v", err)
			}
			if tt.wantErr != nil {
				if want := []string{"Animals", "Colors"}; !reflect.DeepEqual(names, want) {
					t.Errorf("Names() = %q, want %q", names, want)
				}
				return
			}

			found := false
			for _, n := range names {
				found = found || n == tt.name
			}
			if !found {
				t.Fatalf("Names() = %q, missing %q", names, tt.name)
			}
			if _, err := s.Add(tt.name, "word"); err != nil {
				t.Fatalf("Add() error = %v", err)
			}
			words, err := s.Load(tt.name)
			if err != nil || !reflect.DeepEqual(words, []string{"word"}) {
				t.Errorf("Load() = %q, %v", words, err)
			}
		})
	}
}

func TestDeleteListNotifiesAndBlocksSave(t *testing.T) {
	s := newTestStore(t)
	path := testutil.CreateTestList(t, s.Dir(), "verbs", "go")

	var got []Event
	unsubscribe := s.Subscribe(func(ev Event) { got = append(got, ev) })
	defer unsubscribe()

	if err := s.DeleteList("verbs"); err != nil {
		t.Fatalf("DeleteList() error = %v", err)
	}
	testutil.AssertFileNotExists(t, path)

	if len(got) != 1 || got[0] != (Event{Kind: EventDeleted, Name: "verbs"}) {
		t.Errorf("events = %+v", got)
	}

	// a late save from a stale view must not bring the file back
	if err := s.Save("verbs", []string{"go"}); !errors.Is(err, ErrListDeleted) {
		t.Errorf("Save() after delete error = %v, want ErrListDeleted", err)
	}
	testutil.AssertFileNotExists(t, path)

	if _, err := s.Add("verbs", "run"); err == nil {
		t.Error("Add() after delete should fail")
	}
	testutil.AssertFileNotExists(t, path)

	// explicit creation is allowed again
	if err := s.Create("verbs"); err != nil {
		t.Fatalf("Create() after delete error = %v", err)
	}
	if err := s.Save("verbs", []string{"walk"}); err != nil {
		t.Errorf("Save() after re-create error = %v", err)
	}
}

func TestDeleteBundledListHidesIt(t *testing.T) {
	s := newTestStore(t)

	if err := s.DeleteList("Animals"); err != nil {
		t.Fatalf("DeleteList() error = %v", err)
	}
	if s.Exists("Animals") {
		t.Error("bundled list still exists after delete")
	}

	// a fresh store on the same directory keeps it hidden
	s2 := NewWithDefaults(s.Dir(), testDefaults())
	names, err := s2.Names()
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	if want := []string{"Colors"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Names() = %q, want %q", names, want)
	}
	if _, err := s2.Load("Animals"); !errors.Is(err, ErrListNotFound) {
		t.Errorf("Load(hidden) error = %v", err)
	}
}

func TestDeleteListMissing(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteList("ghost"); !errors.Is(err, ErrListNotFound) {
		t.Errorf("DeleteList() error = %v, want ErrListNotFound", err)
	}
}

func TestRename(t *testing.T) {
	s := newTestStore(t)
	oldPath := testutil.CreateTestList(t, s.Dir(), "old", "a", "b")
	testutil.CreateTestList(t, s.Dir(), "taken", "x")

	var got []Event
	s.Subscribe(func(ev Event) { got = append(got, ev) })

	if err := s.Rename("old", "taken"); !errors.Is(err, ErrListExists) {
		t.Errorf("Rename(to existing) error = %v", err)
	}
	if err := s.Rename("old", ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Rename(blank) error = %v", err)
	}
	if err := s.Rename("old", "new"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}

	testutil.AssertFileNotExists(t, oldPath)
	testutil.AssertFileContent(t, filepath.Join(s.Dir(), "new.csv"), []byte("a\nb"))
	if len(got) != 1 || got[0] != (Event{Kind: EventRenamed, Name: "old", NewName: "new"}) {
		t.Errorf("events = %+v", got)
	}
}

func TestRenameBlocksSaveUnderOldName(t *testing.T) {
	s := newTestStore(t)
	oldPath := testutil.CreateTestList(t, s.Dir(), "old", "a")

	if err := s.Rename("old", "new: words"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Rename(invalid) error = %v, want ErrInvalidName", err)
	}
	if err := s.Rename("old", "new"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}

	if err := s.Save("old", []string{"stale"}); !errors.Is(err, ErrListDeleted) {
		t.Errorf("Save(old) error = %v, want ErrListDeleted", err)
	}
	testutil.AssertFileNotExists(t, oldPath)

	// Creating the old name again makes it usable
	if err := s.Create("old"); err != nil {
		t.Fatalf("Create(old) error = %v", err)
	}
	if err := s.Save("old", []string{"fresh"}); err != nil {
		t.Errorf("Save(old) after Create error = %v", err)
	}
}

func TestImportRejectsInvalidName(t *testing.T) {
	s := newTestStore(t)
	src := filepath.Join(t.TempDir(), "a:b.txt")
	testutil.CreateTestFile(t, src, []byte("word"))

	if _, err := s.Import(src); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Import() error = %v, want ErrInvalidName", err)
	}
	testutil.AssertFileNotExists(t, filepath.Join(s.Dir(), "a_b.csv"))
}

func TestImport(t *testing.T) {
	s := newTestStore(t)
	src := filepath.Join(t.TempDir(), "myWords.csv")
	content := "alpha\n\nbeta, gamma\n"
	testutil.CreateTestFile(t, src, []byte(content))

	var got []Event
	s.Subscribe(func(ev Event) { got = append(got, ev) })

	name, err := s.Import(src)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if name != "myWords" {
		t.Errorf("Import() name = %q, want myWords", name)
	}

	// copied verbatim
	testutil.AssertFileContent(t, filepath.Join(s.Dir(), "myWords.csv"), []byte(content))

	words, err := s.Load("myWords")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := []string{"alpha", "beta, gamma"}; !reflect.DeepEqual(words, want) {
		t.Errorf("Load() = %q, want %q", words, want)
	}
	if len(got) != 1 || got[0].Kind != EventImported || got[0].Name != "myWords" {
		t.Errorf("events = %+v", got)
	}
}

func TestImportOverwritesAndRevivesDeleted(t *testing.T) {
	s := newTestStore(t)
	testutil.CreateTestList(t, s.Dir(), "words", "old")
	if err := s.DeleteList("words"); err != nil {
		t.Fatalf("DeleteList() error = %v", err)
	}

	src := filepath.Join(t.TempDir(), " words.txt")
	testutil.CreateTestFile(t, src, []byte("new"))

	name, err := s.Import(src)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if name != "words" {
		t.Errorf("Import() name = %q", name)
	}
	if _, err := s.Add("words", "newer"); err != nil {
		t.Errorf("Add() after import error = %v", err)
	}
}

func TestImportMissingFile(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Import(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error importing a missing file")
	}
}

func TestExport(t *testing.T) {
	s := newTestStore(t)
	dst := filepath.Join(t.TempDir(), "out.txt")

	if err := s.Export("Colors", dst); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	testutil.AssertFileContent(t, dst, []byte("red\ngreen\nblue"))
}

func TestSaveFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// the store directory is a regular file, so nothing can be written
	s := NewWithDefaults(blocker, nil)
	if err := s.Save("l", []string{"a"}); err == nil {
		t.Error("Save() into an unusable directory should fail")
	}
}

func TestDefaultListsEmbedded(t *testing.T) {
	s := New(t.TempDir())
	names, err := s.Names()
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	if len(names) == 0 {
		t.Fatal("no bundled lists")
	}
	for _, name := range names {
		if !s.IsBundled(name) {
			t.Errorf("%q is not bundled", name)
		}
		words, err := s.Load(name)
		if err != nil || len(words) == 0 {
			t.Errorf("bundled list %q: %d words, err %v", name, len(words), err)
		}
	}
}

func TestEventKindString(t *testing.T) {
	kinds := map[EventKind]string{
		EventCreated:  "Created",
		EventImported: "Imported",
		EventDeleted:  "Deleted",
		EventRenamed:  "Renamed",
		EventKind(99): "Unknown",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("EventKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
