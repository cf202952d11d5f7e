// Package seed holds the built-in dictionary: the ambiguous words with their
// context cues and a base keyword set.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
)

//go:embed seed.yaml
var seedYAML []byte

type seedEntry struct {
	Word       string             `yaml:"word"`
	Category   model.Category     `yaml:"category"`
	Meaning    string             `yaml:"meaning"`
	Importance int                `yaml:"importance"`
	Numbers    []int              `yaml:"numbers"`
	EndDigits  []int              `yaml:"end_digits"`
	Cues       map[string]float64 `yaml:"cues"`
}

type seedFile struct {
	Homonyms []seedEntry `yaml:"homonyms"`
	Keywords []seedEntry `yaml:"keywords"`
}

// Data is the decoded seed.
type Data struct {
	Entries []model.DictionaryEntry
	Cues    []model.ContextCue
}

// CueSetter stores an initial cue weight.
type CueSetter interface {
	SetCue(senseID, word string, weight float64) error
}

// Decode parses seed YAML.
func Decode(raw []byte) (*Data, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}

	data := &Data{}
	for _, group := range [][]seedEntry{f.Homonyms, f.Keywords} {
		for _, se := range group {
			entry := se.entry()
			data.Entries = append(data.Entries, entry)
			for word, weight := range se.Cues {
				data.Cues = append(data.Cues, model.ContextCue{SenseID: entry.ID, Word: word, Weight: weight})
			}
		}
	}
	return data, nil
}

func (se seedEntry) entry() model.DictionaryEntry {
	e := model.DictionaryEntry{
		Word:       se.Word,
		Importance: se.Importance,
		Category:   se.Category,
		Meaning:    se.Meaning,
		Numbers:    make([]model.NumberRef, 0, len(se.Numbers)),
	}
	for _, d := range se.EndDigits {
		e.Numbers = append(e.Numbers, model.ExpandEndDigit(d)...)
	}
	for _, n := range se.Numbers {
		e.Numbers = append(e.Numbers, model.NumberRef{Number: n})
	}
	return e.EnsureID()
}

// Default returns the embedded seed.
func Default() (*Data, error) {
	return Decode(seedYAML)
}

// Load writes the embedded seed into the stores and returns the number of
// entries stored.
func Load(ctx context.Context, dictionary services.DictionaryManager, cues CueSetter) (int, error) {
	data, err := Default()
	if err != nil {
		return 0, err
	}
	return Apply(ctx, data, dictionary, cues)
}

// Apply writes data into the stores.
func Apply(ctx context.Context, data *Data, dictionary services.DictionaryManager, cues CueSetter) (int, error) {
	n, err := dictionary.Put(ctx, data.Entries...)
	if err != nil {
		return n, fmt.Errorf("failed to store seed entries: %w", err)
	}
	for _, c := range data.Cues {
		if err := cues.SetCue(c.SenseID, c.Word, c.Weight); err != nil {
			return n, fmt.Errorf("failed to store cue %s for %s: %w", c.Word, c.SenseID, err)
		}
	}
	return n, nil
}
