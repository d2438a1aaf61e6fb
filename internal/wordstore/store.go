package wordstore

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"codeberg.org/snonux/wordloop/internal"
)

// FileExt is the extension of persisted list files. The lists are plain
// line-delimited text; the extension is kept for compatibility with
// existing word files.
const FileExt = ".csv"

// OwnVocabulary is the list words are collected into by the user. Adding to
// it skips words that are already present.
const OwnVocabulary = "MyVocabulary"

// tombstoneFile records bundled lists the user has deleted
const tombstoneFile = ".deleted"

var (
	ErrEmptyWord       = errors.New("word is empty")
	ErrMultilineWord   = errors.New("word must be a single line")
	ErrEmptyName       = errors.New("list name is empty")
	ErrInvalidName     = errors.New("list name cannot be used as a file name")
	ErrListExists      = errors.New("list already exists")
	ErrListNotFound    = errors.New("list not found")
	ErrListDeleted     = errors.New("list was deleted")
	ErrIndexOutOfRange = errors.New("index out of range")
)

//go:embed defaults/*.csv
var bundled embed.FS

// DefaultLists returns the word lists shipped with the binary
func DefaultLists() fs.FS {
	sub, err := fs.Sub(bundled, "defaults")
	if err != nil {
		// the embed pattern guarantees the directory
		panic(err)
	}
	return sub
}

// EventKind tells observers what happened to a list
type EventKind int

const (
	EventCreated EventKind = iota
	EventImported
	EventDeleted
	EventRenamed
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "Created"
	case EventImported:
		return "Imported"
	case EventDeleted:
		return "Deleted"
	case EventRenamed:
		return "Renamed"
	default:
		return "Unknown"
	}
}

// Event is broadcast to subscribers when a list appears or goes away
type Event struct {
	Kind    EventKind
	Name    string
	NewName string // set for EventRenamed
}

// Store manages the word list files in one directory
type Store struct {
	dir      string
	defaults fs.FS

	mu      sync.Mutex
	deleted map[string]bool // deleted in this session, never saved again

	subMu       sync.Mutex
	subscribers map[int]func(Event)
	nextSubID   int
}

// New creates a store rooted at dir using the bundled default lists
func New(dir string) *Store {
	return NewWithDefaults(dir, DefaultLists())
}

// NewWithDefaults creates a store with a custom set of default lists.
// defaults may be nil.
func NewWithDefaults(dir string, defaults fs.FS) *Store {
	return &Store{
		dir:         dir,
		defaults:    defaults,
		deleted:     make(map[string]bool),
		subscribers: make(map[int]func(Event)),
	}
}

// DefaultDir returns the directory user lists are kept in
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "wordloop", "lists")
}

// Dir returns the store directory
func (s *Store) Dir() string {
	return s.dir
}

// Subscribe registers fn for list events and returns a function removing it
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subscribers[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// checkName trims a new list name and rejects names that would not come
// back unchanged from Names
func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", ErrEmptyName
	case strings.HasPrefix(name, "."), internal.SanitizeFilename(name) != name:
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, internal.SanitizeFilename(name)+FileExt)
}

// Names returns all available lists, user lists and bundled defaults,
// sorted case-insensitively
func (s *Store) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var names []string

	entries, err := os.ReadDir(s.dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read list directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != FileExt || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), FileExt)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	hidden := s.readTombstones()
	for _, name := range s.bundledNames() {
		if !seen[name] && !hidden[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li == lj {
			return names[i] < names[j]
		}
		return li < lj
	})
	return names, nil
}

// Exists reports whether a list can be loaded
func (s *Store) Exists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists(name)
}

func (s *Store) exists(name string) bool {
	if _, err := os.Stat(s.path(name)); err == nil {
		return true
	}
	return s.isBundled(name) && !s.readTombstones()[name]
}

// Load reads a list. The user copy wins over the bundled default.
func (s *Store) Load(name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(name)
}

func (s *Store) load(name string) ([]string, error) {
	file, err := os.Open(s.path(name))
	if err == nil {
		defer file.Close()
		words, err := ReadWords(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load list %q: %w", name, err)
		}
		return words, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open list %q: %w", name, err)
	}

	if s.defaults == nil || s.readTombstones()[name] {
		return nil, fmt.Errorf("%w: %s", ErrListNotFound, name)
	}
	bundledFile, err := s.defaults.Open(name + FileExt)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrListNotFound, name)
	}
	defer bundledFile.Close()

	words, err := ReadWords(bundledFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load bundled list %q: %w", name, err)
	}
	return words, nil
}

// Save overwrites the persisted copy of a list. A list deleted earlier in
// this session is never written again; Create or Import bring it back.
func (s *Store) Save(name string, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(name, words)
}

func (s *Store) save(name string, words []string) error {
	if s.deleted[name] {
		return fmt.Errorf("%w: %s", ErrListDeleted, name)
	}
	return s.writeFile(s.path(name), strings.NewReader(FormatWords(words)))
}

// writeFile replaces target atomically with the content of r
func (s *Store) writeFile(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create list directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".wordloop-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(target), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(target), err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(target), err)
	}
	return nil
}

// Add appends a trimmed word to a list and persists it. The updated list
// is returned.
func (s *Store) Add(name, word string) ([]string, error) {
	word, err := cleanWord(word)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	words, err := s.load(name)
	if err != nil {
		if !errors.Is(err, ErrListNotFound) || name != OwnVocabulary {
			return nil, err
		}
		words = nil
	}

	words, added := appendWord(name, words, word)
	if !added {
		return words, nil
	}
	if err := s.save(name, words); err != nil {
		return words, err
	}
	return words, nil
}

// Edit replaces the word at canonical index and persists the list
func (s *Store) Edit(name string, index int, word string) ([]string, error) {
	word, err := cleanWord(word)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	words, err := s.load(name)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(words) {
		return words, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	words[index] = word
	return words, s.save(name, words)
}

// Delete removes the words at the given canonical indices. Indices out of
// range are ignored.
func (s *Store) Delete(name string, indices ...int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	words, err := s.load(name)
	if err != nil {
		return nil, err
	}
	words = removeIndices(words, indices)
	return words, s.save(name, words)
}

// Create makes a new empty list
func (s *Store) Create(name string) error {
	name, err := checkName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.exists(name) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrListExists, name)
	}
	delete(s.deleted, name)
	s.unhide(name)
	err = s.save(name, nil)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(Event{Kind: EventCreated, Name: name})
	return nil
}

// Rename moves a list to a new name. Observers see EventRenamed for the
// old name, and saving under the old name fails like after DeleteList.
func (s *Store) Rename(oldName, newName string) error {
	newName, err := checkName(newName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.exists(newName) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrListExists, newName)
	}
	words, err := s.load(oldName)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.deleted, newName)
	s.unhide(newName)
	if err := s.save(newName, words); err != nil {
		s.mu.Unlock()
		return err
	}
	err = s.remove(oldName)
	if err == nil {
		s.deleted[oldName] = true
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(Event{Kind: EventRenamed, Name: oldName, NewName: newName})
	return nil
}

// Import copies an external file verbatim into the store. The list name is
// the file name without extension; an existing list of that name is
// overwritten.
func (s *Store) Import(srcPath string) (string, error) {
	name, err := checkName(internal.CleanListName(srcPath))
	if err != nil {
		return "", err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open import file: %w", err)
	}
	defer src.Close()

	if err := s.ImportReader(name, src); err != nil {
		return "", err
	}
	return name, nil
}

// ImportReader stores the content of r as list name
func (s *Store) ImportReader(name string, r io.Reader) error {
	name, err := checkName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.deleted, name)
	s.unhide(name)
	err = s.writeFile(s.path(name), r)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to import %s: %w", name, err)
	}
	s.notify(Event{Kind: EventImported, Name: name})
	return nil
}

// Export writes a list to an external file
func (s *Store) Export(name, dstPath string) error {
	words, err := s.Load(name)
	if err != nil {
		return err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer dst.Close()

	if _, err := io.WriteString(dst, FormatWords(words)); err != nil {
		return fmt.Errorf("failed to export %s: %w", name, err)
	}
	return dst.Close()
}

// DeleteList removes a list and notifies subscribers. Bundled lists are
// hidden. Saving the name afterwards fails until it is created again.
func (s *Store) DeleteList(name string) error {
	s.mu.Lock()
	if !s.exists(name) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrListNotFound, name)
	}
	err := s.remove(name)
	if err == nil {
		s.deleted[name] = true
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(Event{Kind: EventDeleted, Name: name})
	return nil
}

// remove deletes the user file and hides a bundled list of the same name
func (s *Store) remove(name string) error {
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete list %q: %w", name, err)
	}
	if s.isBundled(name) {
		return s.hide(name)
	}
	return nil
}

// IsBundled reports whether a list ships with the binary
func (s *Store) IsBundled(name string) bool {
	return s.isBundled(name)
}

func (s *Store) isBundled(name string) bool {
	if s.defaults == nil {
		return false
	}
	_, err := fs.Stat(s.defaults, name+FileExt)
	return err == nil
}

func (s *Store) bundledNames() []string {
	if s.defaults == nil {
		return nil
	}
	matches, err := fs.Glob(s.defaults, "*"+FileExt)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), FileExt))
	}
	return names
}

func (s *Store) readTombstones() map[string]bool {
	hidden := make(map[string]bool)
	data, err := os.ReadFile(filepath.Join(s.dir, tombstoneFile))
	if err != nil {
		return hidden
	}
	for _, name := range ParseWords(string(data)) {
		hidden[name] = true
	}
	return hidden
}

func (s *Store) writeTombstones(hidden map[string]bool) error {
	names := make([]string, 0, len(hidden))
	for name := range hidden {
		names = append(names, name)
	}
	sort.Strings(names)
	return s.writeFile(filepath.Join(s.dir, tombstoneFile), strings.NewReader(FormatWords(names)))
}

func (s *Store) hide(name string) error {
	hidden := s.readTombstones()
	if hidden[name] {
		return nil
	}
	hidden[name] = true
	return s.writeTombstones(hidden)
}

// unhide is best effort: a stale tombstone only hides a bundled list that
// was shadowed by a user copy anyway
func (s *Store) unhide(name string) {
	hidden := s.readTombstones()
	if !hidden[name] {
		return
	}
	delete(hidden, name)
	if err := s.writeTombstones(hidden); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to update %s: %v\n", tombstoneFile, err)
	}
}

// appendWord adds word unless the list deduplicates and already has it
func appendWord(name string, words []string, word string) ([]string, bool) {
	if name == OwnVocabulary {
		for _, w := range words {
			if w == word {
				return words, false
			}
		}
	}
	return append(words, word), true
}

// removeIndices returns words without the given canonical indices
func removeIndices(words []string, indices []int) []string {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(words) {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return words
	}
	kept := make([]string, 0, len(words)-len(drop))
	for i, w := range words {
		if !drop[i] {
			kept = append(kept, w)
		}
	}
	return kept
}
