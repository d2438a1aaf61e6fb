// Package anki exports word lists as Anki import files: a plain CSV for
// the import dialog or a self-contained .apkg deck.
package anki

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/wordloop/internal/batch"
)

// Card represents a single Anki flashcard
type Card struct {
	Word        string // front side, as drilled
	Translation string // back side, may be empty
	List        string // source list, exported as tag
	Notes       string
}

// Translator fills in missing translations
type Translator interface {
	Translate(ctx context.Context, text, fromLang, toLang string) (string, error)
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output file path
	IncludeHeaders bool   // Include CSV headers
	SourceLang     string // language of the drilled words, "auto" to detect
	TargetLang     string // language of the translations
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
		SourceLang:     "auto",
		TargetLang:     "English",
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddList adds one card per word of a list. Words written as
// "word = translation" are split; glossary supplies translations for the
// others and may be nil.
func (g *Generator) AddList(list string, words []string, glossary map[string]string) {
	for _, entry := range batch.FromWords(words) {
		card := Card{Word: entry.Word, Translation: entry.Translation, List: list}
		if card.Translation == "" {
			card.Translation = glossary[entry.Word]
		}
		g.AddCard(card)
	}
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// FillTranslations looks up every missing translation. Failed lookups are
// reported as warnings and leave the card untranslated.
func (g *Generator) FillTranslations(ctx context.Context, t Translator) (translated int, err error) {
	missing := 0
	for _, card := range g.cards {
		if card.Translation == "" {
			missing++
		}
	}

	done := 0
	for i := range g.cards {
		card := &g.cards[i]
		if card.Translation != "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return translated, err
		}
		done++
		fmt.Printf("Translating %d/%d: %s\n", done, missing, card.Word)

		translation, err := t.Translate(ctx, card.Word, g.options.SourceLang, g.options.TargetLang)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: translation of %q failed: %v\n", card.Word, err)
			continue
		}
		card.Translation = translation
		translated++
	}
	return translated, nil
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		headers := []string{"Word", "Translation", "Notes", "Tags"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{card.Word, card.Translation, card.Notes, Tag(card.List)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return file.Close()
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)
	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}
	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withTranslation int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		if card.Translation != "" {
			withTranslation++
		}
	}
	return
}

// Tag turns a list name into an Anki tag, which may not contain spaces
func Tag(list string) string {
	return strings.Join(strings.Fields(list), "_")
}
