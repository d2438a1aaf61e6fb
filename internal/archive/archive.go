// Package archive takes timestamped backups of the word list directory.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ArchiveLists copies every file of listsDir into
// <parent>/archive/lists-<timestamp> and returns the backup path. The
// lists stay where they are.
func ArchiveLists(listsDir string) (string, error) {
	return archiveAt(listsDir, time.Now())
}

func archiveAt(listsDir string, now time.Time) (string, error) {
	info, err := os.Stat(listsDir)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("lists directory does not exist: %s", listsDir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat lists directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", listsDir)
	}

	archiveDir := filepath.Join(filepath.Dir(listsDir), "archive")
	archivePath := filepath.Join(archiveDir, "lists-"+now.Format("20060102-150405"))
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, "lists-"+now.Format("20060102-150405.000000"))
	}

	if err := os.MkdirAll(archivePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	entries, err := os.ReadDir(listsDir)
	if err != nil {
		return "", fmt.Errorf("failed to read lists directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		src := filepath.Join(listsDir, entry.Name())
		if err := copyFile(src, filepath.Join(archivePath, entry.Name())); err != nil {
			return "", err
		}
	}

	fmt.Printf("Lists archived to: %s\n", archivePath)
	return archivePath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(src), err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", filepath.Base(src), err)
	}
	return out.Close()
}
