// Package stats keeps a log of every word shown during drills in a SQLite
// database and summarizes it per list and per word.
package stats

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/wordloop/internal/sampler"
)

//go:embed schema.sql
var schemaSQL string

// InitDB creates the tables on db if they do not exist yet
func InitDB(db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate stats database: %w", err)
		}
	}
	return nil
}

// Log records shown words
type Log struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the stats database at path
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create stats directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open stats database: %w", err)
	}
	l, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// New wraps an open database, running the migrations first
func New(db *sql.DB) (*Log, error) {
	if err := InitDB(db); err != nil {
		return nil, err
	}
	return &Log{db: db, now: time.Now}, nil
}

// Close closes the database
func (l *Log) Close() error {
	return l.db.Close()
}

// Record stores every entry of s with the current time
func (l *Log) Record(ctx context.Context, s sampler.Sample) error {
	if len(s) == 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO shown (word, list, shown_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	at := l.now().UTC()
	for _, e := range s {
		if _, err := stmt.ExecContext(ctx, e.Word, e.List, at); err != nil {
			return fmt.Errorf("insert shown word: %w", err)
		}
	}
	return tx.Commit()
}

// ListCount is how often words of a list were shown
type ListCount struct {
	List     string
	Shown    int
	Distinct int
}

// WordCount is how often a single word was shown
type WordCount struct {
	Word     string
	List     string
	Shown    int
	LastSeen time.Time
}

// Total returns the number of recorded words
func (l *Log) Total(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shown`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count shown words: %w", err)
	}
	return n, nil
}

// Lists returns the per-list counts, most shown first
func (l *Log) Lists(ctx context.Context) ([]ListCount, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT list, COUNT(*), COUNT(DISTINCT word)
		FROM shown
		GROUP BY list
		ORDER BY COUNT(*) DESC, list`)
	if err != nil {
		return nil, fmt.Errorf("query list counts: %w", err)
	}
	defer rows.Close()

	var counts []ListCount
	for rows.Next() {
		var c ListCount
		if err := rows.Scan(&c.List, &c.Shown, &c.Distinct); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TopWords returns the limit most shown words
func (l *Log) TopWords(ctx context.Context, limit int) ([]WordCount, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT word, list, COUNT(*), MAX(shown_at)
		FROM shown
		GROUP BY word, list
		ORDER BY COUNT(*) DESC, word, list
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top words: %w", err)
	}
	defer rows.Close()

	var words []WordCount
	for rows.Next() {
		var w WordCount
		var last string
		if err := rows.Scan(&w.Word, &w.List, &w.Shown, &last); err != nil {
			return nil, err
		}
		w.LastSeen = parseTime(last)
		words = append(words, w)
	}
	return words, rows.Err()
}

// Forget removes the log of a list
func (l *Log) Forget(ctx context.Context, list string) (int64, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM shown WHERE list = ?`, list)
	if err != nil {
		return 0, fmt.Errorf("forget %s: %w", list, err)
	}
	return res.RowsAffected()
}

// Print writes a human readable summary to w
func (l *Log) Print(ctx context.Context, w io.Writer, limit int) error {
	total, err := l.Total(ctx)
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Fprintln(w, "No words shown yet.")
		return nil
	}

	lists, err := l.Lists(ctx)
	if err != nil {
		return err
	}
	top, err := l.TopWords(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Words shown: %d\n\n", total)
	fmt.Fprintln(w, "Per list:")
	for _, c := range lists {
		fmt.Fprintf(w, "  %-30s %6d shown, %d distinct\n", c.List, c.Shown, c.Distinct)
	}
	fmt.Fprintf(w, "\nMost shown:\n")
	for i, word := range top {
		fmt.Fprintf(w, "  %2d. %-25s %-20s %d\n", i+1, word.Word, "("+word.List+")", word.Shown)
	}
	return nil
}

// the driver returns MAX() of a timestamp column as text
func parseTime(s string) time.Time {
	layouts := []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
