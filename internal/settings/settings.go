// Package settings holds the persisted drill preferences: resample
// interval, display count, fair distribution, theme, selected lists and
// their ranges. Values live in the viper configuration and are written
// back to the YAML config file.
package settings

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/wordloop/internal/sampler"
)

// Configuration keys
const (
	KeyInterval            = "drill.interval"
	KeyCount               = "drill.count"
	KeyFair                = "drill.fair"
	KeyTheme               = "ui.theme"
	KeySort                = "ui.sort"
	KeySelected            = "lists.selected"
	KeyRanges              = "lists.ranges"
	KeyListsDir            = "lists.directory"
	KeyStatsDB             = "stats.database"
	KeyTranslationProvider = "translation.provider"
	KeyTranslationSource   = "translation.source"
	KeyTranslationTarget   = "translation.target"
)

// MaxCount bounds the number of words shown at once
const MaxCount = 50

// Theme is the UI appearance
type Theme string

const (
	ThemeSystem Theme = "System"
	ThemeLight  Theme = "Light"
	ThemeDark   Theme = "Dark"
)

// Themes lists the selectable themes
var Themes = []Theme{ThemeSystem, ThemeLight, ThemeDark}

// ParseTheme accepts any capitalization, unknown values fall back to System
func ParseTheme(s string) Theme {
	for _, t := range Themes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t
		}
	}
	return ThemeSystem
}

// RangeSetting is the persisted form of one list's range
type RangeSetting struct {
	Name  string  `mapstructure:"name"`
	Lower float64 `mapstructure:"lower"`
	Upper float64 `mapstructure:"upper"`
}

// Settings is the in-memory copy of all preferences
type Settings struct {
	Interval time.Duration
	Count    int
	Fair     bool
	Theme    Theme
	Sort     string

	Selected []string
	Ranges   map[string]sampler.Range

	ListsDir string
	StatsDB  string

	TranslationProvider string
	TranslationSource   string
	TranslationTarget   string
}

// Default returns the settings of a fresh installation
func Default() *Settings {
	home, _ := os.UserHomeDir()
	stateDir := filepath.Join(home, ".local", "state", "wordloop")

	return &Settings{
		Interval:            0,
		Count:               1,
		Fair:                false,
		Theme:               ThemeSystem,
		Sort:                "original",
		Ranges:              make(map[string]sampler.Range),
		ListsDir:            filepath.Join(stateDir, "lists"),
		StatsDB:             filepath.Join(stateDir, "stats.db"),
		TranslationProvider: "openai",
		TranslationSource:   "auto",
		TranslationTarget:   "English",
	}
}

// DefaultPath is where settings are written when no config file was read
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wordloop.yaml")
}

// SetDefaults registers the default values with v
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyInterval, d.Interval.Seconds())
	v.SetDefault(KeyCount, d.Count)
	v.SetDefault(KeyFair, d.Fair)
	v.SetDefault(KeyTheme, string(d.Theme))
	v.SetDefault(KeySort, d.Sort)
	v.SetDefault(KeyListsDir, d.ListsDir)
	v.SetDefault(KeyStatsDB, d.StatsDB)
	v.SetDefault(KeyTranslationProvider, d.TranslationProvider)
	v.SetDefault(KeyTranslationSource, d.TranslationSource)
	v.SetDefault(KeyTranslationTarget, d.TranslationTarget)
}

// Load reads settings from v, normalizing out-of-range values
func Load(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	s := &Settings{
		Interval:            secondsToDuration(v.GetFloat64(KeyInterval)),
		Count:               clampCount(v.GetInt(KeyCount)),
		Fair:                v.GetBool(KeyFair),
		Theme:               ParseTheme(v.GetString(KeyTheme)),
		Sort:                v.GetString(KeySort),
		Selected:            dedupe(v.GetStringSlice(KeySelected)),
		Ranges:              make(map[string]sampler.Range),
		ListsDir:            expandHome(v.GetString(KeyListsDir)),
		StatsDB:             expandHome(v.GetString(KeyStatsDB)),
		TranslationProvider: v.GetString(KeyTranslationProvider),
		TranslationSource:   v.GetString(KeyTranslationSource),
		TranslationTarget:   v.GetString(KeyTranslationTarget),
	}

	var ranges []RangeSetting
	if err := v.UnmarshalKey(KeyRanges, &ranges); err != nil {
		return s, fmt.Errorf("invalid %s: %w", KeyRanges, err)
	}
	for _, r := range ranges {
		if r.Name == "" {
			continue
		}
		s.Ranges[r.Name] = sampler.Range{Lower: r.Lower, Upper: r.Upper}.Clamp()
	}

	return s, nil
}

// Apply copies s into v without writing anything
func (s *Settings) Apply(v *viper.Viper) {
	v.Set(KeyInterval, s.Interval.Seconds())
	v.Set(KeyCount, clampCount(s.Count))
	v.Set(KeyFair, s.Fair)
	v.Set(KeyTheme, string(ParseTheme(string(s.Theme))))
	v.Set(KeySort, s.Sort)
	v.Set(KeySelected, append([]string{}, s.Selected...))
	v.Set(KeyRanges, s.rangeList())
	v.Set(KeyListsDir, s.ListsDir)
	v.Set(KeyStatsDB, s.StatsDB)
	v.Set(KeyTranslationProvider, s.TranslationProvider)
	v.Set(KeyTranslationSource, s.TranslationSource)
	v.Set(KeyTranslationTarget, s.TranslationTarget)
}

// Save applies s to v and writes the config file. When v has not read a
// config file, DefaultPath is used.
func (s *Settings) Save(v *viper.Viper) error {
	s.Apply(v)

	path := v.ConfigFileUsed()
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// rangeList encodes ranges sorted by name. Viper lowercases map keys, so
// list names are stored as values.
func (s *Settings) rangeList() []map[string]any {
	names := make([]string, 0, len(s.Ranges))
	for name := range s.Ranges {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]map[string]any, 0, len(names))
	for _, name := range names {
		r := s.Ranges[name].Clamp()
		list = append(list, map[string]any{
			"name":  name,
			"lower": r.Lower,
			"upper": r.Upper,
		})
	}
	return list
}

// IsSelected reports whether a list is selected
func (s *Settings) IsSelected(name string) bool {
	for _, n := range s.Selected {
		if n == name {
			return true
		}
	}
	return false
}

// Forget drops a list from selection and ranges
func (s *Settings) Forget(name string) {
	kept := s.Selected[:0]
	for _, n := range s.Selected {
		if n != name {
			kept = append(kept, n)
		}
	}
	s.Selected = kept
	delete(s.Ranges, name)
}

func secondsToDuration(seconds float64) time.Duration {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func clampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
