package sampler

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"testing"
)

func TestRangeBounds(t *testing.T) {
	tests := []struct {
		name      string
		r         Range
		total     int
		wantStart int
		wantEnd   int
	}{
		{"full", FullRange, 10, 0, 10},
		{"first half", Range{0, 0.5}, 10, 0, 5},
		{"truncates", Range{0.25, 0.75}, 10, 2, 7},
		{"empty slice", Range{0.5, 0.5}, 10, 5, 5},
		{"empty list", FullRange, 0, 0, 0},
		{"clamped", Range{-1, 2}, 4, 0, 4},
		{"crossed", Range{0.8, 0.2}, 10, 2, 2},
		{"tiny upper", Range{0, 0.05}, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.r.Bounds(tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Bounds(%d) = %d,%d want %d,%d", tt.total, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestRangeWithLowerUpper(t *testing.T) {
	r := Range{Lower: 0.2, Upper: 0.6}

	if got := r.WithLower(0.8); got != (Range{0.8, 0.8}) {
		t.Errorf("WithLower(0.8) = %+v", got)
	}
	if got := r.WithUpper(0.1); got != (Range{0.1, 0.1}) {
		t.Errorf("WithUpper(0.1) = %+v", got)
	}
	if got := r.WithLower(-3); got != (Range{0, 0.6}) {
		t.Errorf("WithLower(-3) = %+v", got)
	}
	if got := r.WithUpper(7); got != (Range{0.2, 1}) {
		t.Errorf("WithUpper(7) = %+v", got)
	}
	if got := (Range{Lower: math.NaN(), Upper: 0.5}).Clamp(); got != (Range{0, 0.5}) {
		t.Errorf("Clamp(NaN) = %+v", got)
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange(" 0.25 , 0.75 ")
	if err != nil || r != (Range{0.25, 0.75}) {
		t.Errorf("ParseRange() = %+v, %v", r, err)
	}

	r, err = ParseRange(Range{0.1, 0.9}.String())
	if err != nil || r != (Range{0.1, 0.9}) {
		t.Errorf("ParseRange(String()) = %+v, %v", r, err)
	}

	for _, bad := range []string{"", "0.5", "a,1", "0,b"} {
		if _, err := ParseRange(bad); err == nil {
			t.Errorf("ParseRange(%q) should fail", bad)
		}
	}
}

func TestComputePoolFullRange(t *testing.T) {
	words := map[string][]string{"a": {"w1", "w2", "w3", "w4"}}
	pool := ComputePool(map[string]Range{"a": FullRange}, []string{"a"}, words)

	want := []Entry{{"w1", "a"}, {"w2", "a"}, {"w3", "a"}, {"w4", "a"}}
	if !reflect.DeepEqual(pool, want) {
		t.Errorf("ComputePool() = %+v, want %+v", pool, want)
	}
}

func TestComputePoolOrderAndRanges(t *testing.T) {
	words := map[string][]string{
		"first":  {"a", "b", "c", "d"},
		"second": {"x", "y"},
		"empty":  {},
		"idle":   {"never"},
	}
	active := map[string]Range{
		"first":  {0.5, 1},
		"second": FullRange,
		"empty":  FullRange,
	}

	pool := ComputePool(active, []string{"second", "empty", "first", "idle"}, words)
	want := []Entry{{"x", "second"}, {"y", "second"}, {"c", "first"}, {"d", "first"}}
	if !reflect.DeepEqual(pool, want) {
		t.Errorf("ComputePool() = %+v, want %+v", pool, want)
	}
}

func TestSampleUniform(t *testing.T) {
	rng := NewSeededRand(1)
	pool := []Entry{{"a", "l"}, {"b", "l"}, {"c", "l"}, {"d", "m"}}

	t.Run("count above pool returns every entry once", func(t *testing.T) {
		got := SampleUniform(rng, pool, 10)
		if len(got) != len(pool) {
			t.Fatalf("len = %d, want %d", len(got), len(pool))
		}
		gotWords := got.Words()
		sort.Strings(gotWords)
		if !reflect.DeepEqual(gotWords, []string{"a", "b", "c", "d"}) {
			t.Errorf("words = %q", gotWords)
		}
	})

	t.Run("truncates to count", func(t *testing.T) {
		if got := SampleUniform(rng, pool, 2); len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("empty pool", func(t *testing.T) {
		got := SampleUniform(rng, nil, 3)
		if got == nil || len(got) != 0 {
			t.Errorf("SampleUniform(empty) = %#v, want empty sample", got)
		}
	})

	t.Run("zero count", func(t *testing.T) {
		if got := SampleUniform(rng, pool, 0); len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})

	t.Run("does not reorder the pool", func(t *testing.T) {
		before := append([]Entry(nil), pool...)
		SampleUniform(rng, pool, 4)
		if !reflect.DeepEqual(pool, before) {
			t.Error("pool was modified")
		}
	})
}

func TestSampleUniformWeightsBySize(t *testing.T) {
	rng := NewSeededRand(7)
	words := map[string][]string{
		"big":   make([]string, 90),
		"small": make([]string, 10),
	}
	for i := range words["big"] {
		words["big"][i] = fmt.Sprintf("b%d", i)
	}
	for i := range words["small"] {
		words["small"][i] = fmt.Sprintf("s%d", i)
	}
	active := map[string]Range{"big": FullRange, "small": FullRange}
	pool := ComputePool(active, []string{"big", "small"}, words)

	counts := map[string]int{}
	const trials = 5000
	for i := 0; i < trials; i++ {
		counts[SampleUniform(rng, pool, 1)[0].List]++
	}

	share := float64(counts["big"]) / trials
	if share < 0.85 || share > 0.95 {
		t.Errorf("big list share = %.3f, want about 0.9", share)
	}
}

func TestSampleFairEqualWeightPerList(t *testing.T) {
	rng := NewSeededRand(42)
	words := map[string][]string{
		"big":   make([]string, 500),
		"small": {"only", "two"},
	}
	for i := range words["big"] {
		words["big"][i] = fmt.Sprintf("w%d", i)
	}
	active := map[string]Range{"big": FullRange, "small": FullRange}

	const count = 1000
	counts := map[string]int{}
	for trial := 0; trial < 20; trial++ {
		sample := SampleFair(rng, active, []string{"big", "small"}, words, count)
		if len(sample) != count {
			t.Fatalf("len = %d, want %d", len(sample), count)
		}
		for _, e := range sample {
			counts[e.List]++
		}
	}

	total := float64(counts["big"] + counts["small"])
	share := float64(counts["small"]) / total
	if share < 0.47 || share > 0.53 {
		t.Errorf("small list share = %.3f, want about 0.5", share)
	}
}

func TestSampleFairRespectsRanges(t *testing.T) {
	rng := NewSeededRand(3)
	words := map[string][]string{"l": {"a", "b", "c", "d"}, "gone": {"x"}}
	active := map[string]Range{"l": {0.5, 1}, "gone": {0, 0.5}}

	for _, e := range SampleFair(rng, active, []string{"l", "gone"}, words, 200) {
		if e.List != "l" || (e.Word != "c" && e.Word != "d") {
			t.Fatalf("unexpected entry %+v", e)
		}
	}
}

func TestSampleFairNoQualifyingList(t *testing.T) {
	rng := NewSeededRand(3)
	got := SampleFair(rng, map[string]Range{"l": {0.5, 0.5}}, []string{"l"}, map[string][]string{"l": {"a", "b"}}, 5)
	if len(got) != 0 {
		t.Errorf("SampleFair() = %+v, want empty", got)
	}
}

func TestSampleEqual(t *testing.T) {
	a := Sample{{"x", "l"}, {"y", "l"}}
	if !a.Equal(Sample{{"x", "l"}, {"y", "l"}}) {
		t.Error("identical samples not equal")
	}
	if a.Equal(Sample{{"y", "l"}, {"x", "l"}}) {
		t.Error("order should matter")
	}
	if a.Equal(Sample{{"x", "m"}, {"y", "l"}}) {
		t.Error("list should matter")
	}
	if a.Equal(a[:1]) {
		t.Error("length should matter")
	}
}
