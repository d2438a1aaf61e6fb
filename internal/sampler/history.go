package sampler

// History keeps previously drawn samples with a cursor, like browser
// history: going back moves the cursor, drawing while behind the tip
// drops the forward entries.
type History struct {
	samples []Sample
	cursor  int // index of the current sample, -1 when empty
}

// NewHistory returns an empty history
func NewHistory() *History {
	return &History{cursor: -1}
}

// Push records a new sample. Empty samples and samples equal to the
// current one are ignored. It reports whether the sample was recorded.
func (h *History) Push(s Sample) bool {
	if len(s) == 0 {
		return false
	}
	if h.cursor >= 0 && h.samples[h.cursor].Equal(s) {
		return false
	}

	h.samples = append(h.samples[:h.cursor+1], append(Sample(nil), s...))
	h.cursor = len(h.samples) - 1
	return true
}

// Back moves the cursor one step back
func (h *History) Back() (Sample, bool) {
	if h.cursor <= 0 {
		return h.Current(), false
	}
	h.cursor--
	return h.Current(), true
}

// Forward moves the cursor one step towards the tip
func (h *History) Forward() (Sample, bool) {
	if h.cursor < 0 || h.cursor >= len(h.samples)-1 {
		return h.Current(), false
	}
	h.cursor++
	return h.Current(), true
}

// Current returns the sample under the cursor
func (h *History) Current() Sample {
	if h.cursor < 0 {
		return nil
	}
	return h.samples[h.cursor]
}

// CanBack reports whether Back would move
func (h *History) CanBack() bool {
	return h.cursor > 0
}

// CanForward reports whether Forward would move
func (h *History) CanForward() bool {
	return h.cursor >= 0 && h.cursor < len(h.samples)-1
}

// Len returns the number of recorded samples
func (h *History) Len() int {
	return len(h.samples)
}

// Cursor returns the position of the current sample, -1 when empty
func (h *History) Cursor() int {
	return h.cursor
}

// Clear drops everything
func (h *History) Clear() {
	h.samples = nil
	h.cursor = -1
}

// RemoveList strips all entries of a list. Samples left empty are dropped,
// as are samples that became equal to their predecessor, and the cursor
// stays on the nearest surviving sample at or before it.
func (h *History) RemoveList(name string) {
	var kept []Sample
	cursor := -1
	for i, s := range h.samples {
		filtered := RemoveList(s, name)
		if len(filtered) > 0 && (len(kept) == 0 || !kept[len(kept)-1].Equal(filtered)) {
			kept = append(kept, filtered)
		}
		if i == h.cursor {
			cursor = len(kept) - 1
		}
	}
	if cursor < 0 && len(kept) > 0 {
		cursor = 0
	}
	h.samples = kept
	h.cursor = cursor
}

// RenameList retags entries of a renamed list
func (h *History) RenameList(oldName, newName string) {
	for _, s := range h.samples {
		for i := range s {
			if s[i].List == oldName {
				s[i].List = newName
			}
		}
	}
}

// RemoveList returns s without the entries of list name
func RemoveList(s Sample, name string) Sample {
	var kept Sample
	for _, e := range s {
		if e.List != name {
			kept = append(kept, e)
		}
	}
	return kept
}
