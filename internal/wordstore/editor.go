package wordstore

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Editor holds one open list with its current projection. Every edit made
// through a projection position is mapped to the canonical index recorded
// when the projection was built, applied to the canonical order and
// persisted immediately.
type Editor struct {
	store *Store

	mu          sync.Mutex
	name        string
	words       []string
	mode        SortMode
	items       []Item
	closed      bool
	unsubscribe func()
}

// Open loads a list into a new editor
func (s *Store) Open(name string) (*Editor, error) {
	words, err := s.Load(name)
	if err != nil {
		return nil, err
	}

	e := &Editor{
		store: s,
		name:  name,
		words: words,
	}
	e.rebuild()
	e.unsubscribe = s.Subscribe(e.onEvent)
	return e, nil
}

func (e *Editor) onEvent(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ev.Name != e.name {
		return
	}
	switch ev.Kind {
	case EventDeleted:
		e.closed = true
	case EventRenamed:
		e.name = ev.NewName
	}
}

// Close detaches the editor from store events. It is safe to call more
// than once and from several goroutines.
func (e *Editor) Close() {
	e.mu.Lock()
	unsubscribe := e.unsubscribe
	e.unsubscribe = nil
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Name returns the list name
func (e *Editor) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

// Deleted reports whether the list went away while the editor was open
func (e *Editor) Deleted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Words returns a copy of the canonical order
func (e *Editor) Words() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.words...)
}

// Len returns the number of words
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.words)
}

// Mode returns the current sort mode
func (e *Editor) Mode() SortMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// SetSort switches the projection
func (e *Editor) SetSort(mode SortMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = mode
	e.rebuild()
}

// Projection returns a copy of the current display order
func (e *Editor) Projection() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Item(nil), e.items...)
}

// Filter returns the projection rows containing query, case-insensitive
func (e *Editor) Filter(query string) []Item {
	e.mu.Lock()
	defer e.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]Item(nil), e.items...)
	}
	var matched []Item
	for _, item := range e.items {
		if strings.Contains(strings.ToLower(item.Word), query) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Reload re-reads the list from the store
func (e *Editor) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("%w: %s", ErrListDeleted, e.name)
	}
	words, err := e.store.Load(e.name)
	if err != nil {
		return err
	}
	e.words = words
	e.rebuild()
	return nil
}

// Add appends a word to the canonical order
func (e *Editor) Add(word string) error {
	word, err := cleanWord(word)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("%w: %s", ErrListDeleted, e.name)
	}
	words, added := appendWord(e.name, e.words, word)
	if !added {
		return nil
	}
	e.words = words
	e.rebuild()
	return e.store.Save(e.name, e.words)
}

// EditAt replaces the word shown at projection position pos
func (e *Editor) EditAt(pos int, word string) error {
	word, err := cleanWord(word)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("%w: %s", ErrListDeleted, e.name)
	}
	if pos < 0 || pos >= len(e.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, pos)
	}
	e.words[e.items[pos].Index] = word
	e.rebuild()
	return e.store.Save(e.name, e.words)
}

// DeleteAt removes the words shown at the given projection positions
func (e *Editor) DeleteAt(positions ...int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("%w: %s", ErrListDeleted, e.name)
	}
	indices := make([]int, 0, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= len(e.items) {
			return fmt.Errorf("%w: %d", ErrIndexOutOfRange, pos)
		}
		indices = append(indices, e.items[pos].Index)
	}
	sort.Ints(indices)
	e.words = removeIndices(e.words, indices)
	e.rebuild()
	return e.store.Save(e.name, e.words)
}

// Replace swaps the whole canonical order, for bulk edits
func (e *Editor) Replace(words []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("%w: %s", ErrListDeleted, e.name)
	}
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			cleaned = append(cleaned, w)
		}
	}
	e.words = cleaned
	e.rebuild()
	return e.store.Save(e.name, e.words)
}

// rebuild re-derives the projection; callers hold e.mu
func (e *Editor) rebuild() {
	e.items = Project(e.words, e.mode)
}
