package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/wordloop/internal/testutil"
)

func TestArchiveLists(t *testing.T) {
	tmpDir := t.TempDir()
	listsDir := filepath.Join(tmpDir, "lists")
	testutil.CreateTestList(t, listsDir, "Fruits", "apple", "pear")
	testutil.CreateTestFile(t, filepath.Join(listsDir, ".deleted"), []byte("Common Verbs\n"))
	if err := os.MkdirAll(filepath.Join(listsDir, "subdir"), 0755); err != nil {
		t.Fatal(err)
	}

	var archivePath string
	stdout, _ := testutil.CaptureOutput(t, func() {
		var err error
		archivePath, err = ArchiveLists(listsDir)
		if err != nil {
			t.Errorf("ArchiveLists failed: %v", err)
		}
	})

	if !strings.Contains(stdout, "Lists archived to:") {
		t.Errorf("unexpected output %q", stdout)
	}
	if filepath.Dir(archivePath) != filepath.Join(tmpDir, "archive") {
		t.Errorf("archive path = %s", archivePath)
	}
	if !strings.HasPrefix(filepath.Base(archivePath), "lists-") {
		t.Errorf("archive name = %s", filepath.Base(archivePath))
	}

	testutil.AssertFileContent(t, filepath.Join(archivePath, "Fruits.csv"), []byte("apple\npear"))
	testutil.AssertFileExists(t, filepath.Join(archivePath, ".deleted"))
	testutil.AssertFileNotExists(t, filepath.Join(archivePath, "subdir"))

	// originals stay in place
	testutil.AssertFileExists(t, filepath.Join(listsDir, "Fruits.csv"))
}

func TestArchiveLists_NonExistentDirectory(t *testing.T) {
	_, err := ArchiveLists(filepath.Join(t.TempDir(), "missing"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error = %v", err)
	}
}

func TestArchiveLists_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	testutil.CreateTestFile(t, path, []byte("x"))
	if _, err := ArchiveLists(path); err == nil {
		t.Error("expected error for a regular file")
	}
}

func TestArchiveLists_SameSecond(t *testing.T) {
	listsDir := filepath.Join(t.TempDir(), "lists")
	testutil.CreateTestList(t, listsDir, "A", "x")
	now := time.Date(2026, 1, 2, 3, 4, 5, 123456000, time.UTC)

	var first, second string
	testutil.CaptureOutput(t, func() {
		first, _ = archiveAt(listsDir, now)
		second, _ = archiveAt(listsDir, now)
	})

	if first == second {
		t.Fatalf("both archives use %s", first)
	}
	if !strings.HasSuffix(second, ".123456") {
		t.Errorf("second archive = %s", second)
	}
}
