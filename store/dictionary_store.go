package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rivo/uniseg"

	"github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/internal/hangul"
	"github.com/gcbaptista/go-dream-engine/model"
)

// DictionaryStore is an in-memory dictionary keyed by sense id.
// It implements services.DictionaryManager.
type DictionaryStore struct {
	Mu      sync.RWMutex
	Entries map[string]model.DictionaryEntry // sense id to entry
	ByWord  map[string][]string              // surface word to sense ids
	closed  bool
}

// gobDictionaryData is a helper struct for Gob encoding/decoding DictionaryStore data.
// It excludes the mutex.
type gobDictionaryData struct {
	Entries map[string]model.DictionaryEntry
}

// NewDictionaryStore creates an empty dictionary.
func NewDictionaryStore() *DictionaryStore {
	return &DictionaryStore{
		Entries: make(map[string]model.DictionaryEntry),
		ByWord:  make(map[string][]string),
	}
}

// Close makes every subsequent read fail with errors.ErrStoreUnavailable.
func (ds *DictionaryStore) Close() {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()
	ds.closed = true
}

func (ds *DictionaryStore) checkOpen() error {
	if ds.closed {
		return fmt.Errorf("dictionary store is closed: %w", errors.ErrStoreUnavailable)
	}
	return nil
}

// Lookup returns entries related to any of the candidates: the stored word is a
// substring of a candidate, a candidate is a substring of the stored word, or both
// start with the same grapheme cluster. Results are ordered by word then id.
func (ds *DictionaryStore) Lookup(ctx context.Context, candidates []string) ([]model.DictionaryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	type candidateKey struct {
		text  string
		first string
	}
	wanted := make([]candidateKey, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		wanted = append(wanted, candidateKey{text: c, first: firstCluster(c)})
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	var results []model.DictionaryEntry
	for _, entry := range ds.Entries {
		if entry.Word == "" {
			continue
		}
		entryFirst := firstCluster(entry.Word)
		for _, p := range wanted {
			if strings.Contains(p.text, entry.Word) ||
				strings.Contains(entry.Word, p.text) ||
				entryFirst == p.first {
				results = append(results, entry)
				break
			}
		}
	}

	sortEntries(results)
	return results, nil
}

// LookupBySense returns every sense registered for word.
func (ds *DictionaryStore) LookupBySense(ctx context.Context, word string) ([]model.DictionaryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	ids := ds.ByWord[word]
	senses := make([]model.DictionaryEntry, 0, len(ids))
	for _, id := range ids {
		senses = append(senses, ds.Entries[id])
	}
	sortEntries(senses)
	return senses, nil
}

// Put validates and upserts entries, returning how many were stored.
// An entry without an ID gets one derived from its word, category and meaning.
func (ds *DictionaryStore) Put(_ context.Context, entries ...model.DictionaryEntry) (int, error) {
	for i := range entries {
		if err := ValidateEntry(entries[i]); err != nil {
			return 0, fmt.Errorf("entry %d (%q): %w", i, entries[i].Word, err)
		}
	}

	ds.Mu.Lock()
	defer ds.Mu.Unlock()
	if err := ds.checkOpen(); err != nil {
		return 0, err
	}

	for _, entry := range entries {
		entry = entry.EnsureID()
		if old, exists := ds.Entries[entry.ID]; exists && old.Word != entry.Word {
			ds.unindexUnsafe(old)
		}
		ds.Entries[entry.ID] = entry
		ds.indexUnsafe(entry)
	}
	return len(entries), nil
}

// Get returns the entry with the given sense id.
func (ds *DictionaryStore) Get(_ context.Context, id string) (model.DictionaryEntry, error) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	if err := ds.checkOpen(); err != nil {
		return model.DictionaryEntry{}, err
	}

	entry, ok := ds.Entries[id]
	if !ok {
		return model.DictionaryEntry{}, errors.NewEntryNotFoundError(id)
	}
	return entry, nil
}

// Delete removes the entry with the given sense id.
func (ds *DictionaryStore) Delete(_ context.Context, id string) error {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()
	if err := ds.checkOpen(); err != nil {
		return err
	}

	entry, ok := ds.Entries[id]
	if !ok {
		return errors.NewEntryNotFoundError(id)
	}
	delete(ds.Entries, id)
	ds.unindexUnsafe(entry)
	return nil
}

// All returns every entry ordered by word then id.
func (ds *DictionaryStore) All(_ context.Context) ([]model.DictionaryEntry, error) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	out := make([]model.DictionaryEntry, 0, len(ds.Entries))
	for _, e := range ds.Entries {
		out = append(out, e)
	}
	sortEntries(out)
	return out, nil
}

// BrowseByInitial returns entries whose first syllable starts with the given
// leading consonant (초성), ordered by word.
func (ds *DictionaryStore) BrowseByInitial(_ context.Context, initial rune) ([]model.DictionaryEntry, error) {
	if !hangul.IsInitialConsonant(initial) {
		return nil, errors.NewValidationError("initial", fmt.Sprintf("'%c' is not a leading consonant", initial))
	}

	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	var out []model.DictionaryEntry
	for _, e := range ds.Entries {
		if c, ok := hangul.InitialConsonant(e.Word); ok && c == initial {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

// Homonyms returns every word registered with two or more senses.
func (ds *DictionaryStore) Homonyms(_ context.Context) ([]model.HomonymGroup, error) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	var groups []model.HomonymGroup
	for word, ids := range ds.ByWord {
		if len(ids) < 2 {
			continue
		}
		group := model.HomonymGroup{Word: word}
		for _, id := range ids {
			group.Senses = append(group.Senses, ds.Entries[id])
		}
		sortEntries(group.Senses)
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Word < groups[j].Word })
	return groups, nil
}

// Count returns the number of stored senses.
func (ds *DictionaryStore) Count() int {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	return len(ds.Entries)
}

func (ds *DictionaryStore) indexUnsafe(entry model.DictionaryEntry) {
	for _, id := range ds.ByWord[entry.Word] {
		if id == entry.ID {
			return
		}
	}
	ds.ByWord[entry.Word] = append(ds.ByWord[entry.Word], entry.ID)
}

func (ds *DictionaryStore) unindexUnsafe(entry model.DictionaryEntry) {
	ids := ds.ByWord[entry.Word]
	for i, id := range ids {
		if id == entry.ID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(ds.ByWord, entry.Word)
		return
	}
	ds.ByWord[entry.Word] = ids
}

// ValidateEntry checks the invariants of a dictionary entry.
func ValidateEntry(e model.DictionaryEntry) error {
	if strings.TrimSpace(e.Word) == "" {
		return errors.NewValidationError("word", "cannot be empty")
	}
	if e.Importance < 0 || e.Importance > model.MaxImportance {
		return errors.NewValidationError("importance", fmt.Sprintf("must be between 0 and %d, got %d", model.MaxImportance, e.Importance))
	}
	if !e.Category.Valid() {
		return errors.NewValidationError("category", fmt.Sprintf("unknown category '%s'", e.Category))
	}
	for _, n := range e.Numbers {
		if n.Number < model.MinNumber || n.Number > model.MaxNumber {
			return errors.NewValidationError("numbers", fmt.Sprintf("number %d outside %d-%d", n.Number, model.MinNumber, model.MaxNumber))
		}
	}
	return nil
}

func sortEntries(entries []model.DictionaryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Word != entries[j].Word {
			return entries[i].Word < entries[j].Word
		}
		return entries[i].ID < entries[j].ID
	})
}

func firstCluster(s string) string {
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return cluster
}

// GobEncode implements the gob.GobEncoder interface for DictionaryStore.
func (ds *DictionaryStore) GobEncode() ([]byte, error) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobDictionaryData{Entries: ds.Entries}); err != nil {
		return nil, fmt.Errorf("failed to gob encode dictionary data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for DictionaryStore.
// The word index is rebuilt from the decoded entries.
func (ds *DictionaryStore) GobDecode(data []byte) error {
	decoded := gobDictionaryData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to gob decode dictionary data: %w", err)
	}

	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	ds.Entries = decoded.Entries
	if ds.Entries == nil {
		ds.Entries = make(map[string]model.DictionaryEntry)
	}
	ds.ByWord = make(map[string][]string, len(ds.Entries))
	for _, e := range ds.Entries {
		ds.indexUnsafe(e)
	}
	return nil
}
