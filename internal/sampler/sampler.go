// Package sampler draws random words from ranged slices of several word
// lists, either weighted by list size or with equal weight per list, and
// keeps a browsable history of what was drawn.
package sampler

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Range is the fractional slice of a list eligible for sampling
type Range struct {
	Lower float64
	Upper float64
}

// FullRange covers the whole list
var FullRange = Range{Lower: 0, Upper: 1}

// Clamp forces both bounds into [0,1] and Lower <= Upper. When the bounds
// cross, Upper wins.
func (r Range) Clamp() Range {
	r.Lower = clamp01(r.Lower)
	r.Upper = clamp01(r.Upper)
	if r.Lower > r.Upper {
		r.Lower = r.Upper
	}
	return r
}

// WithLower moves the lower bound, dragging the upper bound along when
// it would be crossed
func (r Range) WithLower(v float64) Range {
	r.Lower = clamp01(v)
	if r.Upper < r.Lower {
		r.Upper = r.Lower
	}
	return r.Clamp()
}

// WithUpper moves the upper bound, dragging the lower bound along when
// it would be crossed
func (r Range) WithUpper(v float64) Range {
	r.Upper = clamp01(v)
	if r.Lower > r.Upper {
		r.Lower = r.Upper
	}
	return r.Clamp()
}

// Bounds returns the index slice [start, end) for a list of total words
func (r Range) Bounds(total int) (start, end int) {
	r = r.Clamp()
	start = int(math.Floor(float64(total) * r.Lower))
	end = int(math.Floor(float64(total) * r.Upper))
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}
	return start, end
}

// Slice returns the words selected by the range
func (r Range) Slice(words []string) []string {
	start, end := r.Bounds(len(words))
	return words[start:end]
}

// String encodes the range as "lower,upper"
func (r Range) String() string {
	return strconv.FormatFloat(r.Lower, 'f', -1, 64) + "," + strconv.FormatFloat(r.Upper, 'f', -1, 64)
}

// ParseRange decodes the String form
func ParseRange(s string) (Range, error) {
	lower, upper, ok := strings.Cut(s, ",")
	if !ok {
		return Range{}, fmt.Errorf("invalid range %q: want lower,upper", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lower), 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid lower bound in %q: %w", s, err)
	}
	up, err := strconv.ParseFloat(strings.TrimSpace(upper), 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid upper bound in %q: %w", s, err)
	}
	return Range{Lower: lo, Upper: up}.Clamp(), nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Entry is a drawn word tagged with the list it came from
type Entry struct {
	Word string
	List string
}

// Sample is the result of one sampling event
type Sample []Entry

// Equal reports whether two samples hold the same entries in the same order
func (s Sample) Equal(other Sample) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Words returns just the words of the sample
func (s Sample) Words() []string {
	words := make([]string, len(s))
	for i, e := range s {
		words[i] = e.Word
	}
	return words
}

// ComputePool concatenates the ranged slices of the active lists, in the
// order given, each word tagged with its list. Lists without a range,
// without words or with an empty slice are skipped.
func ComputePool(active map[string]Range, order []string, words map[string][]string) []Entry {
	var pool []Entry
	for _, name := range order {
		r, ok := active[name]
		if !ok {
			continue
		}
		for _, w := range r.Slice(words[name]) {
			pool = append(pool, Entry{Word: w, List: name})
		}
	}
	return pool
}

// SampleUniform shuffles a copy of the pool and keeps the first count
// entries. Every pool entry has the same chance, so larger lists
// contribute proportionally more words.
func SampleUniform(rng *rand.Rand, pool []Entry, count int) Sample {
	if count <= 0 || len(pool) == 0 {
		return Sample{}
	}

	shuffled := make([]Entry, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return Sample(shuffled[:count])
}

// SampleFair draws count independent entries: a uniformly chosen list
// among those with a non-empty slice, then a uniformly chosen word of that
// slice. Repeats are possible.
func SampleFair(rng *rand.Rand, active map[string]Range, order []string, words map[string][]string, count int) Sample {
	type candidate struct {
		name  string
		words []string
	}

	var candidates []candidate
	for _, name := range order {
		r, ok := active[name]
		if !ok {
			continue
		}
		if slice := r.Slice(words[name]); len(slice) > 0 {
			candidates = append(candidates, candidate{name: name, words: slice})
		}
	}

	sample := Sample{}
	if len(candidates) == 0 {
		return sample
	}
	for i := 0; i < count; i++ {
		c := candidates[rng.IntN(len(candidates))]
		sample = append(sample, Entry{Word: c.words[rng.IntN(len(c.words))], List: c.name})
	}
	return sample
}

// NewRand returns a generator seeded from the runtime's random source
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededRand returns a deterministic generator
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
