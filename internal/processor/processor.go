package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/wordloop/internal"
	"codeberg.org/snonux/wordloop/internal/anki"
	"codeberg.org/snonux/wordloop/internal/archive"
	"codeberg.org/snonux/wordloop/internal/batch"
	"codeberg.org/snonux/wordloop/internal/cli"
	"codeberg.org/snonux/wordloop/internal/drill"
	"codeberg.org/snonux/wordloop/internal/gui"
	"codeberg.org/snonux/wordloop/internal/models"
	"codeberg.org/snonux/wordloop/internal/sampler"
	"codeberg.org/snonux/wordloop/internal/settings"
	"codeberg.org/snonux/wordloop/internal/stats"
	"codeberg.org/snonux/wordloop/internal/translation"
	"codeberg.org/snonux/wordloop/internal/tui"
	"codeberg.org/snonux/wordloop/internal/wordstore"
)

// Processor runs the operations behind the commands
type Processor struct {
	flags    *cli.Flags
	v        *viper.Viper
	settings *settings.Settings
	store    *wordstore.Store
	ctx      context.Context

	stats      *stats.Log
	translator translation.Provider
}

// NewProcessor loads the settings from the global viper instance and opens
// the word store
func NewProcessor(flags *cli.Flags) (*Processor, error) {
	return newProcessor(context.Background(), flags, viper.GetViper())
}

func newProcessor(ctx context.Context, flags *cli.Flags, v *viper.Viper) (*Processor, error) {
	s, err := settings.Load(v)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.ListsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lists directory: %w", err)
	}

	return &Processor{
		flags:    flags,
		v:        v,
		settings: s,
		store:    wordstore.NewWithDefaults(s.ListsDir, wordstore.DefaultLists()),
		ctx:      ctx,
	}, nil
}

// Close releases the stats database
func (p *Processor) Close() error {
	if p.stats != nil {
		return p.stats.Close()
	}
	return nil
}

// Settings returns the loaded settings
func (p *Processor) Settings() *settings.Settings {
	return p.settings
}

// Store returns the word store
func (p *Processor) Store() *wordstore.Store {
	return p.store
}

// statsLog opens the stats database on first use. Nil when disabled or
// when it cannot be opened.
func (p *Processor) statsLog() *stats.Log {
	if p.flags.NoStats {
		return nil
	}
	if p.stats == nil {
		l, err := stats.Open(p.settings.StatsDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: statistics disabled: %v\n", err)
			p.flags.NoStats = true
			return nil
		}
		p.stats = l
	}
	return p.stats
}

func (p *Processor) getTranslator() (translation.Provider, error) {
	if p.translator != nil {
		return p.translator, nil
	}

	provider := p.settings.TranslationProvider
	key := cli.GetOpenAIKey()
	if provider == "gemini" {
		key = cli.GetGeminiKey()
	}
	t, err := translation.New(translation.Config{
		Provider: provider,
		APIKey:   key,
		Model:    p.flags.Model,
	})
	if err != nil {
		return nil, err
	}
	p.translator = t
	return t, nil
}

// newController builds a drill controller. The --list flag replaces the
// saved selection for this session.
func (p *Processor) newController(opts ...drill.Option) *drill.Controller {
	if len(p.flags.Lists) > 0 {
		p.settings.Selected = p.flags.Lists
	}
	if log := p.statsLog(); log != nil {
		opts = append(opts, drill.WithRecorder(log))
	}
	return drill.New(p.ctx, p.store, p.settings, opts...)
}

// RunGUIMode launches the GUI application
func (p *Processor) RunGUIMode() error {
	ctrl := p.newController()
	defer ctrl.Close()

	cfg := &gui.Config{
		SourceLang: p.settings.TranslationSource,
		TargetLang: p.settings.TranslationTarget,
		Save:       func() error { return ctrl.Persist(p.v) },
	}
	if t, err := p.getTranslator(); err == nil {
		cfg.Translator = t
	} else {
		fmt.Fprintf(os.Stderr, "Warning: translations disabled: %v\n", err)
	}

	app := gui.New(ctrl, cfg)
	app.Run()

	return ctrl.Persist(p.v)
}

// RunTUI drills in the terminal
func (p *Processor) RunTUI() error {
	ctrl := p.newController()
	defer ctrl.Close()

	if err := tui.Run(p.ctx, ctrl); err != nil {
		return err
	}
	return ctrl.Persist(p.v)
}

// PrintNext draws one sample and prints it
func (p *Processor) PrintNext() error {
	ctrl := p.newController()
	defer ctrl.Close()

	s, err := ctrl.Resample()
	if errors.Is(err, drill.ErrNoWords) {
		return fmt.Errorf("%w, select a list with 'wordloop select <list>'", err)
	}
	if err != nil {
		return err
	}
	printSample(s)
	return nil
}

func printSample(s sampler.Sample) {
	for _, e := range s {
		fmt.Printf("%s\t(%s)\n", e.Word, e.List)
	}
}

// Lists prints every list with its size, selection and range
func (p *Processor) Lists() error {
	names, err := p.store.Names()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No word lists found.")
		return nil
	}

	for _, name := range names {
		words, err := p.store.Load(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", name, err)
			continue
		}
		mark := " "
		if p.settings.IsSelected(name) {
			mark = "*"
		}
		r, ok := p.settings.Ranges[name]
		if !ok {
			r = sampler.FullRange
		}
		start, end := r.Bounds(len(words))
		kind := ""
		if p.store.IsBundled(name) {
			kind = " (bundled)"
		}
		fmt.Printf("%s %-30s %6d words  range %s -> %d words%s\n", mark, name, len(words), r, end-start, kind)
	}
	return nil
}

// Show prints a list in the requested order with canonical indices
func (p *Processor) Show(name string) error {
	mode, err := wordstore.ParseSortMode(p.flags.Sort)
	if err != nil {
		return err
	}

	e, err := p.store.Open(name)
	if err != nil {
		return err
	}
	defer e.Close()

	e.SetSort(mode)
	items := e.Filter(p.flags.Filter)
	for _, it := range items {
		fmt.Printf("%5d  %s\n", it.Index, it.Word)
	}
	if len(items) == 0 {
		fmt.Println("No words.")
	}
	return nil
}

// Create creates an empty list
func (p *Processor) Create(name string) error {
	if err := p.store.Create(name); err != nil {
		return err
	}
	fmt.Printf("Created list %s\n", name)
	return nil
}

// Add appends words to a list, creating it when missing
func (p *Processor) Add(name string, words ...string) error {
	if !p.store.Exists(name) {
		if err := p.store.Create(name); err != nil {
			return err
		}
	}

	var list []string
	for _, w := range words {
		var err error
		if list, err = p.store.Add(name, w); err != nil {
			return fmt.Errorf("add %q: %w", w, err)
		}
	}
	fmt.Printf("%s now has %d words\n", name, len(list))
	return nil
}

// Edit replaces the word at a canonical index
func (p *Processor) Edit(name, index, word string) error {
	i, err := parseIndex(index)
	if err != nil {
		return err
	}
	if _, err := p.store.Edit(name, i, word); err != nil {
		return err
	}
	fmt.Printf("Replaced word %d of %s with %s\n", i, name, word)
	return nil
}

// Remove deletes words by canonical index
func (p *Processor) Remove(name string, indices ...string) error {
	parsed := make([]int, 0, len(indices))
	for _, s := range indices {
		i, err := parseIndex(s)
		if err != nil {
			return err
		}
		parsed = append(parsed, i)
	}
	words, err := p.store.Delete(name, parsed...)
	if err != nil {
		return err
	}
	fmt.Printf("%s now has %d words\n", name, len(words))
	return nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return i, nil
}

// Rename renames a list and carries its selection and range along
func (p *Processor) Rename(oldName, newName string) error {
	if err := p.store.Rename(oldName, newName); err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)

	for i, n := range p.settings.Selected {
		if n == oldName {
			p.settings.Selected[i] = newName
		}
	}
	if r, ok := p.settings.Ranges[oldName]; ok {
		p.settings.Ranges[newName] = r
		delete(p.settings.Ranges, oldName)
	}
	if err := p.settings.Save(p.v); err != nil {
		return err
	}
	fmt.Printf("Renamed %s to %s\n", oldName, newName)
	return nil
}

// Delete removes a list together with its selection, range and statistics
func (p *Processor) Delete(name string) error {
	if err := p.store.DeleteList(name); err != nil {
		return err
	}
	p.settings.Forget(name)
	if err := p.settings.Save(p.v); err != nil {
		return err
	}
	if log := p.statsLog(); log != nil {
		if _, err := log.Forget(p.ctx, name); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	fmt.Printf("Deleted list %s\n", name)
	return nil
}

// Import copies files into the store, the file name without extension
// becomes the list name
func (p *Processor) Import(paths ...string) error {
	var failed int
	for _, path := range paths {
		name, err := p.store.Import(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing '%s': %v\n", path, err)
			failed++
			continue
		}
		words, _ := p.store.Load(name)
		fmt.Printf("Imported %s as %s (%d words)\n", filepath.Base(path), name, len(words))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d imports failed", failed, len(paths))
	}
	return nil
}

// Export writes a list to a file
func (p *Processor) Export(name, path string) error {
	if err := p.store.Export(name, path); err != nil {
		return err
	}
	fmt.Printf("Exported %s to %s\n", name, path)
	return nil
}

// Select adds a list to the saved selection with the range of the --lower
// and --upper flags
func (p *Processor) Select(name string) error {
	ctrl := drill.New(p.ctx, p.store, p.settings)
	defer ctrl.Close()

	if err := ctrl.Select(name); err != nil {
		return err
	}
	ctrl.SetLower(name, p.flags.Lower)
	r := ctrl.SetUpper(name, p.flags.Upper)
	if err := ctrl.Persist(p.v); err != nil {
		return err
	}
	fmt.Printf("Selected %s with range %s, %d words in the pool\n", name, r, ctrl.PoolSize())
	return nil
}

// Deselect removes a list from the saved selection
func (p *Processor) Deselect(name string) error {
	ctrl := drill.New(p.ctx, p.store, p.settings)
	defer ctrl.Close()

	ctrl.Deselect(name)
	if err := ctrl.Persist(p.v); err != nil {
		return err
	}
	fmt.Printf("Deselected %s, %d words in the pool\n", name, ctrl.PoolSize())
	return nil
}

// ExportAnki writes a list as APKG or CSV and returns the output path
func (p *Processor) ExportAnki(name, output string) (string, error) {
	words, err := p.store.Load(name)
	if err != nil {
		return "", err
	}

	var glossary map[string]string
	if p.flags.Glossary != "" {
		entries, err := batch.ReadBatchFile(p.flags.Glossary)
		if err != nil {
			return "", err
		}
		glossary = batch.Glossary(entries)
	}

	if output == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		ext := ".apkg"
		if p.flags.AnkiCSV {
			ext = ".csv"
		}
		output = filepath.Join(home, internal.SanitizeFilename(name)+ext)
	}

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     output,
		IncludeHeaders: true,
		SourceLang:     p.settings.TranslationSource,
		TargetLang:     p.settings.TranslationTarget,
	})
	gen.AddList(name, words, glossary)

	if p.flags.Translate {
		t, err := p.getTranslator()
		if err != nil {
			return "", err
		}
		if _, err := gen.FillTranslations(p.ctx, t); err != nil {
			return "", err
		}
	}

	if p.flags.AnkiCSV {
		if err := gen.GenerateCSV(); err != nil {
			return "", fmt.Errorf("failed to generate CSV: %w", err)
		}
	} else {
		deck := name
		if p.flags.DeckName != "" {
			deck = p.flags.DeckName + "::" + name
		}
		if err := gen.GenerateAPKG(output, deck); err != nil {
			return "", fmt.Errorf("failed to generate APKG: %w", err)
		}
	}

	total, withTranslation := gen.Stats()
	fmt.Printf("  Generated %d cards (%d with translation)\n", total, withTranslation)
	return output, nil
}

// Translate prints the translation of a word
func (p *Processor) Translate(word string) error {
	t, err := p.getTranslator()
	if err != nil {
		return err
	}
	result, err := t.Translate(p.ctx, word, p.settings.TranslationSource, p.settings.TranslationTarget)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	fmt.Printf("%s = %s\n", word, result)
	return nil
}

// Stats prints the drill statistics
func (p *Processor) Stats() error {
	log, err := stats.Open(p.settings.StatsDB)
	if err != nil {
		return err
	}
	defer log.Close()
	return log.Print(p.ctx, os.Stdout, p.flags.Top)
}

// Archive copies the lists directory into a timestamped backup
func (p *Processor) Archive() error {
	_, err := archive.ArchiveLists(p.settings.ListsDir)
	return err
}

// ListModels prints the chat models usable for translations
func (p *Processor) ListModels() error {
	return models.NewLister(cli.GetOpenAIKey()).ListAvailableModels(p.ctx, os.Stdout)
}
