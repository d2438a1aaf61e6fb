package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// escapeHandler is shared by the entries below
type escapeHandler struct {
	onEscape func()
}

// SetOnEscape sets the callback for when Escape is pressed
func (h *escapeHandler) SetOnEscape(f func()) {
	h.onEscape = f
}

func (h *escapeHandler) handle(key *fyne.KeyEvent) bool {
	if key.Name == fyne.KeyEscape && h.onEscape != nil {
		h.onEscape()
		return true
	}
	return false
}

// CustomEntry is a single-line entry that reports Escape
type CustomEntry struct {
	widget.Entry
	escapeHandler
}

// NewCustomEntry creates a new custom single-line entry
func NewCustomEntry() *CustomEntry {
	entry := &CustomEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *CustomEntry) TypedKey(key *fyne.KeyEvent) {
	if !e.handle(key) {
		e.Entry.TypedKey(key)
	}
}

// CustomMultiLineEntry is the multi-line variant, used for bulk editing
type CustomMultiLineEntry struct {
	widget.Entry
	escapeHandler
}

// NewCustomMultiLineEntry creates a new custom multi-line entry
func NewCustomMultiLineEntry() *CustomMultiLineEntry {
	entry := &CustomMultiLineEntry{}
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapOff
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *CustomMultiLineEntry) TypedKey(key *fyne.KeyEvent) {
	if !e.handle(key) {
		e.Entry.TypedKey(key)
	}
}
