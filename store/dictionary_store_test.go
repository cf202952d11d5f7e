package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dreamerrors "github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/model"
)

func sampleEntries() []model.DictionaryEntry {
	return []model.DictionaryEntry{
		{Word: "강아지", Importance: 4, Category: model.CategoryAnimal, Numbers: []model.NumberRef{{Number: 3}, {Number: 28}}},
		{Word: "강", Importance: 2, Category: model.CategoryNature, Numbers: []model.NumberRef{{Number: 11}}},
		{Word: "고양이", Importance: 3, Category: model.CategoryAnimal, Numbers: []model.NumberRef{{Number: 7}}},
		{Word: "눈", Importance: 3, Category: model.CategoryBody, Meaning: "eye", Numbers: []model.NumberRef{{Number: 1}}},
		{Word: "눈", Importance: 4, Category: model.CategoryWeather, Meaning: "snow", Numbers: []model.NumberRef{{Number: 37}}},
		{Word: "하늘", Importance: 3, Category: model.CategoryNature, Numbers: []model.NumberRef{{Number: 9}}},
	}
}

func newSampleStore(t *testing.T) *DictionaryStore {
	t.Helper()
	ds := NewDictionaryStore()
	n, err := ds.Put(context.Background(), sampleEntries()...)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	return ds
}

func words(entries []model.DictionaryEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Word)
	}
	return out
}

func TestDictionaryStore_Lookup(t *testing.T) {
	ds := newSampleStore(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		candidates []string
		expected   []string
	}{
		{"exact and shared first syllable", []string{"강아지가", "강아지"}, []string{"강", "강아지"}},
		{"candidate inside stored word", []string{"양이"}, []string{"고양이"}},
		{"no relation", []string{"바다"}, []string{}},
		{"empty candidates", []string{""}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ds.Lookup(ctx, tt.candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, words(got))
		})
	}
}

func TestDictionaryStore_LookupBySense(t *testing.T) {
	ds := newSampleStore(t)

	senses, err := ds.LookupBySense(context.Background(), "눈")
	require.NoError(t, err)
	require.Len(t, senses, 2)

	meanings := []string{senses[0].Meaning, senses[1].Meaning}
	assert.ElementsMatch(t, []string{"eye", "snow"}, meanings)

	single, err := ds.LookupBySense(context.Background(), "강아지")
	require.NoError(t, err)
	assert.Len(t, single, 1)
}

func TestDictionaryStore_PutValidation(t *testing.T) {
	ds := NewDictionaryStore()
	ctx := context.Background()

	tests := []struct {
		name  string
		entry model.DictionaryEntry
	}{
		{"empty word", model.DictionaryEntry{Word: " "}},
		{"importance too high", model.DictionaryEntry{Word: "꿈", Importance: 6}},
		{"number out of range", model.DictionaryEntry{Word: "꿈", Numbers: []model.NumberRef{{Number: 46}}}},
		{"unknown category", model.DictionaryEntry{Word: "꿈", Category: "우주선"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ds.Put(ctx, tt.entry)
			require.Error(t, err)
			assert.True(t, errors.Is(err, dreamerrors.ErrInvalidInput), "got %v", err)
		})
	}
	assert.Equal(t, 0, ds.Count())
}

func TestDictionaryStore_UpsertKeepsIndexConsistent(t *testing.T) {
	ds := NewDictionaryStore()
	ctx := context.Background()

	_, err := ds.Put(ctx, model.DictionaryEntry{ID: "e1", Word: "뱀", Importance: 3, Numbers: []model.NumberRef{{Number: 6}}})
	require.NoError(t, err)
	_, err = ds.Put(ctx, model.DictionaryEntry{ID: "e1", Word: "용", Importance: 5, Numbers: []model.NumberRef{{Number: 5}}})
	require.NoError(t, err)

	old, err := ds.LookupBySense(ctx, "뱀")
	require.NoError(t, err)
	assert.Empty(t, old)

	renamed, err := ds.LookupBySense(ctx, "용")
	require.NoError(t, err)
	require.Len(t, renamed, 1)
	assert.Equal(t, 5, renamed[0].Importance)
}

func TestDictionaryStore_GetDelete(t *testing.T) {
	ds := newSampleStore(t)
	ctx := context.Background()

	all, err := ds.All(ctx)
	require.NoError(t, err)
	id := all[0].ID

	entry, err := ds.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, all[0], entry)

	require.NoError(t, ds.Delete(ctx, id))
	_, err = ds.Get(ctx, id)
	assert.True(t, errors.Is(err, dreamerrors.ErrEntryNotFound))
	assert.True(t, errors.Is(ds.Delete(ctx, id), dreamerrors.ErrEntryNotFound))
	assert.Equal(t, 5, ds.Count())
}

func TestDictionaryStore_BrowseByInitial(t *testing.T) {
	ds := newSampleStore(t)
	ctx := context.Background()

	got, err := ds.BrowseByInitial(ctx, 'ㄱ')
	require.NoError(t, err)
	assert.Equal(t, []string{"강", "강아지", "고양이"}, words(got))

	_, err = ds.BrowseByInitial(ctx, 'a')
	assert.True(t, errors.Is(err, dreamerrors.ErrInvalidInput))
}

func TestDictionaryStore_Homonyms(t *testing.T) {
	ds := newSampleStore(t)

	groups, err := ds.Homonyms(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "눈", groups[0].Word)
	assert.Len(t, groups[0].Senses, 2)
	assert.True(t, groups[0].Contains(groups[0].Senses[1].ID))
	assert.False(t, groups[0].Contains("missing"))
}

func TestDictionaryStore_Closed(t *testing.T) {
	ds := newSampleStore(t)
	ds.Close()

	_, err := ds.Lookup(context.Background(), []string{"강아지"})
	assert.True(t, errors.Is(err, dreamerrors.ErrStoreUnavailable))

	_, err = ds.LookupBySense(context.Background(), "눈")
	assert.True(t, errors.Is(err, dreamerrors.ErrStoreUnavailable))
}

func TestDictionaryStore_GobRoundTripRebuildsIndex(t *testing.T) {
	ds := newSampleStore(t)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(ds))

	decoded := &DictionaryStore{}
	require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))

	assert.Equal(t, ds.Count(), decoded.Count())
	senses, err := decoded.LookupBySense(context.Background(), "눈")
	require.NoError(t, err)
	assert.Len(t, senses, 2)
}
