package wordstore

import (
	"fmt"
	"sort"
	"strings"
)

// SortMode selects how a list is ordered for display
type SortMode int

const (
	SortOriginal SortMode = iota
	SortReverse
	SortAlphabetical
	SortReverseAlphabetical
)

// SortModes lists all modes in menu order
var SortModes = []SortMode{SortOriginal, SortReverse, SortAlphabetical, SortReverseAlphabetical}

func (m SortMode) String() string {
	switch m {
	case SortOriginal:
		return "original"
	case SortReverse:
		return "reverse"
	case SortAlphabetical:
		return "alphabetical"
	case SortReverseAlphabetical:
		return "reverse-alphabetical"
	default:
		return "unknown"
	}
}

// ParseSortMode accepts the String form of a mode
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "original":
		return SortOriginal, nil
	case "reverse":
		return SortReverse, nil
	case "alphabetical", "alpha", "az":
		return SortAlphabetical, nil
	case "reverse-alphabetical", "reverse-alpha", "za":
		return SortReverseAlphabetical, nil
	}
	return SortOriginal, fmt.Errorf("unknown sort mode %q", s)
}

// Item is one row of a projection. Index is the position of Word in the
// canonical list at the time the projection was built.
type Item struct {
	Word  string
	Index int
}

// Project builds the display order of words for mode
func Project(words []string, mode SortMode) []Item {
	items := make([]Item, len(words))
	for i, w := range words {
		items[i] = Item{Word: w, Index: i}
	}

	switch mode {
	case SortReverse:
		reverseItems(items)
	case SortAlphabetical:
		sortAlphabetical(items)
	case SortReverseAlphabetical:
		sortAlphabetical(items)
		reverseItems(items)
	}
	return items
}

// sortAlphabetical orders case-insensitively, ties keep canonical order
func sortAlphabetical(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Word) < strings.ToLower(items[j].Word)
	})
}

func reverseItems(items []Item) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
