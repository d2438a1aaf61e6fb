package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// fieldSeparator joins note fields in the notes table
const fieldSeparator = "\x1f"

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName string
	deckID   int64
	modelID  int64
	cards    []Card
	now      func() time.Time
}

// NewAPKGGenerator creates a new APKG generator
func NewAPKGGenerator(deckName string) *APKGGenerator {
	// IDs derive from the creation time so repeated exports do not clash
	now := time.Now().UnixMilli()
	return &APKGGenerator{
		deckName: deckName,
		deckID:   now,
		modelID:  now + 1,
		cards:    make([]Card, 0),
		now:      time.Now,
	}
}

// AddCard adds a card to the generator
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GenerateAPKG creates an .apkg file
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "anki_export_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// no media, Anki still expects the mapping file
	if err := os.WriteFile(filepath.Join(tempDir, "media"), []byte("{}"), 0644); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := g.createZipPackage(tempDir, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

// createDatabase creates the Anki SQLite database
func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := createTables(db); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if err := g.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	if err := g.insertNotesAndCards(db); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}
	return nil
}

var schema = []string{
	`CREATE TABLE col (
		id integer PRIMARY KEY,
		crt integer NOT NULL,
		mod integer NOT NULL,
		scm integer NOT NULL,
		ver integer NOT NULL,
		dty integer NOT NULL,
		usn integer NOT NULL,
		ls integer NOT NULL,
		conf text NOT NULL,
		models text NOT NULL,
		decks text NOT NULL,
		dconf text NOT NULL,
		tags text NOT NULL
	)`,
	`CREATE TABLE notes (
		id integer PRIMARY KEY,
		guid text NOT NULL,
		mid integer NOT NULL,
		mod integer NOT NULL,
		usn integer NOT NULL,
		tags text NOT NULL,
		flds text NOT NULL,
		sfld text NOT NULL,
		csum integer NOT NULL,
		flags integer NOT NULL,
		data text NOT NULL
	)`,
	`CREATE TABLE cards (
		id integer PRIMARY KEY,
		nid integer NOT NULL,
		did integer NOT NULL,
		ord integer NOT NULL,
		mod integer NOT NULL,
		usn integer NOT NULL,
		type integer NOT NULL,
		queue integer NOT NULL,
		due integer NOT NULL,
		ivl integer NOT NULL,
		factor integer NOT NULL,
		reps integer NOT NULL,
		lapses integer NOT NULL,
		left integer NOT NULL,
		odue integer NOT NULL,
		odid integer NOT NULL,
		flags integer NOT NULL,
		data text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id integer PRIMARY KEY,
		cid integer NOT NULL,
		usn integer NOT NULL,
		ease integer NOT NULL,
		ivl integer NOT NULL,
		lastIvl integer NOT NULL,
		factor integer NOT NULL,
		time integer NOT NULL,
		type integer NOT NULL
	)`,
	`CREATE TABLE graves (
		usn integer NOT NULL,
		oid integer NOT NULL,
		type integer NOT NULL
	)`,
	`CREATE INDEX ix_notes_csum ON notes (csum)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
	`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
}

func createTables(db *sql.DB) error {
	for _, query := range schema {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

func deckConfig(id int64, name, desc string, mod int64) map[string]any {
	return map[string]any{
		"id":               id,
		"name":             name,
		"mod":              mod,
		"desc":             desc,
		"collapsed":        false,
		"dyn":              0,
		"conf":             1,
		"usn":              0,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"browserCollapsed": false,
		"extendNew":        10,
		"extendRev":        50,
	}
}

// insertCollection inserts the collection metadata
func (g *APKGGenerator) insertCollection(db *sql.DB) error {
	now := g.now().Unix()

	decks := map[string]any{"1": deckConfig(1, "Default", "", now)}
	decks[fmt.Sprint(g.deckID)] = deckConfig(g.deckID, g.deckName, "Vocabulary exported from wordloop", now)
	models := map[string]any{
		fmt.Sprint(g.modelID): g.noteType(now),
	}
	conf := map[string]any{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
		"timeLim":       0,
		"schedVer":      1,
		"curModel":      fmt.Sprint(g.modelID),
		"dayLearnFirst": false,
	}
	dconf := map[string]any{
		"1": map[string]any{
			"id":   1,
			"name": "Default",
			"dyn":  0,
			"new": map[string]any{
				"delays":        []int{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"perDay":        20,
				"order":         1,
				"bury":          true,
				"separate":      true,
			},
			"lapse": map[string]any{
				"delays":      []int{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
			"rev": map[string]any{
				"perDay":   100,
				"ease4":    1.3,
				"fuzz":     0.05,
				"maxIvl":   36500,
				"ivlFct":   1,
				"bury":     true,
				"minSpace": 1,
			},
			"timer":    0,
			"maxTaken": 60,
			"usn":      0,
			"mod":      now,
			"autoplay": true,
			"replayq":  true,
		},
	}

	var encoded [4][]byte
	for i, v := range []any{conf, models, decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded[i] = data
	}

	_, err := db.Exec(`INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1,        // id
		now,      // crt
		now*1000, // mod
		now*1000, // scm
		11,       // ver (schema version)
		0,        // dty
		0,        // usn
		0,        // ls
		string(encoded[0]),
		string(encoded[1]),
		string(encoded[2]),
		string(encoded[3]),
		"{}", // tags
	)
	return err
}

func field(name string, ord, size int) map[string]any {
	return map[string]any{
		"name":   name,
		"ord":    ord,
		"sticky": false,
		"rtl":    false,
		"font":   "Arial",
		"size":   size,
		"media":  []string{},
	}
}

// noteType is a Basic (and reversed card) model with Word, Translation
// and Notes fields
func (g *APKGGenerator) noteType(mod int64) map[string]any {
	return map[string]any{
		"id":    g.modelID,
		"name":  "wordloop (Basic + Reverse)",
		"type":  0,
		"mod":   mod,
		"usn":   -1,
		"sortf": 0,
		"did":   g.deckID,
		"req":   [][]any{{0, "all", []int{0}}, {1, "all", []int{1}}},
		"vers":  []int{},
		"tags":  []string{},
		"latexPre": `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}`,
		"latexPost": `\end{document}`,
		"flds": []map[string]any{
			field("Word", 0, 20),
			field("Translation", 1, 20),
			field("Notes", 2, 16),
		},
		"tmpls": []map[string]any{
			{
				"name":  "Forward",
				"ord":   0,
				"qfmt":  `<div class="word">{{Word}}</div>`,
				"afmt":  "{{FrontSide}}\n\n<hr id=\"answer\">\n\n<div class=\"translation\">{{Translation}}</div>\n{{#Notes}}<div class=\"notes\">{{Notes}}</div>{{/Notes}}",
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
			{
				"name":  "Reverse",
				"ord":   1,
				"qfmt":  `<div class="translation">{{Translation}}</div>`,
				"afmt":  "{{FrontSide}}\n\n<hr id=\"answer\">\n\n<div class=\"word\">{{Word}}</div>\n{{#Notes}}<div class=\"notes\">{{Notes}}</div>{{/Notes}}",
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
		},
		"css": cardCSS,
	}
}

const cardCSS = `.card {
  font-family: Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: #333;
  background-color: white;
}

.word {
  font-size: 32px;
  font-weight: bold;
  color: #c0392b;
  margin: 20px 0;
}

.translation {
  font-size: 28px;
  font-weight: bold;
  color: #2c3e50;
  margin: 20px 0;
}

.notes {
  font-size: 16px;
  color: #7f8c8d;
  margin-top: 20px;
  font-style: italic;
}

hr#answer {
  margin: 30px 0;
  border: 0;
  border-top: 1px solid #ecf0f1;
}`

// insertNotesAndCards inserts one note with a forward and a reverse card
// per word. Words without translation only get the forward card.
func (g *APKGGenerator) insertNotesAndCards(db *sql.DB) error {
	now := g.now()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const cardQuery = `INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, card := range g.cards {
		// leave room for 2 cards per note
		noteID := now.UnixMilli() + int64(i*3)

		fields := strings.Join([]string{card.Word, card.Translation, card.Notes}, fieldSeparator)
		guid := fmt.Sprintf("wl_%d_%s", now.Unix(), card.Word)
		tags := ""
		if card.List != "" {
			tags = " " + Tag(card.List) + " "
		}

		_, err := tx.Exec(`INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			noteID,     // id
			guid,       // guid
			g.modelID,  // mid
			now.Unix(), // mod
			-1,         // usn
			tags,       // tags
			fields,     // flds
			card.Word,  // sfld (sort field)
			0,          // csum
			0,          // flags
			"",         // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		ords := []int{0}
		if card.Translation != "" {
			ords = append(ords, 1)
		}
		for _, ord := range ords {
			id := noteID + 1 + int64(ord)
			_, err = tx.Exec(cardQuery,
				id,         // id
				noteID,     // nid
				g.deckID,   // did
				ord,        // ord (template)
				now.Unix(), // mod
				-1,         // usn
				0,          // type (0=new)
				0,          // queue (0=new)
				id,         // due (position for new cards)
				0,          // ivl
				0,          // factor
				0,          // reps
				0,          // lapses
				0,          // left
				0,          // odue
				0,          // odid
				0,          // flags
				"",         // data
			)
			if err != nil {
				return fmt.Errorf("failed to insert card: %w", err)
			}
		}
	}

	return tx.Commit()
}

// createZipPackage creates the final .apkg zip file
func (g *APKGGenerator) createZipPackage(tempDir, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)
	for _, name := range []string{"collection.anki2", "media"} {
		if err := addToZip(archive, filepath.Join(tempDir, name), name); err != nil {
			archive.Close()
			return err
		}
	}
	if err := archive.Close(); err != nil {
		return err
	}
	return zipFile.Close()
}

func addToZip(archive *zip.Writer, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, file)
	return err
}
