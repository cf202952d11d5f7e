package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/model"
)

const (
	// DefaultCueWeight is the weight a context word gets the first time it is learned.
	DefaultCueWeight = 1.0

	maxChoiceHistory = 1000
)

// ChoiceRecord is one recorded user choice.
type ChoiceRecord struct {
	SenseID      string
	ContextWords []string
	RecordedAt   time.Time
}

// ContextStore is an in-memory ContextWeightStore.
type ContextStore struct {
	Mu      sync.RWMutex
	Cues    map[string]map[string]float64 // sense id -> context word -> weight
	Usage   map[string]int                // sense id -> times chosen
	History []ChoiceRecord
	closed  bool
}

type gobContextData struct {
	Cues    map[string]map[string]float64
	Usage   map[string]int
	History []ChoiceRecord
}

// NewContextStore creates an empty context weight store.
func NewContextStore() *ContextStore {
	return &ContextStore{
		Cues:  make(map[string]map[string]float64),
		Usage: make(map[string]int),
	}
}

// Close makes every subsequent call fail with errors.ErrStoreUnavailable.
func (cs *ContextStore) Close() {
	cs.Mu.Lock()
	defer cs.Mu.Unlock()
	cs.closed = true
}

func (cs *ContextStore) checkOpen() error {
	if cs.closed {
		return fmt.Errorf("context store is closed: %w", errors.ErrStoreUnavailable)
	}
	return nil
}

// SetCue registers or overwrites a cue weight.
func (cs *ContextStore) SetCue(senseID, word string, weight float64) error {
	if senseID == "" || strings.TrimSpace(word) == "" {
		return errors.NewValidationError("cue", "sense id and word are required")
	}
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return errors.NewValidationError("weight", fmt.Sprintf("must be a positive number, got %v", weight))
	}

	cs.Mu.Lock()
	defer cs.Mu.Unlock()
	if err := cs.checkOpen(); err != nil {
		return err
	}
	cs.cuesForUnsafe(senseID)[word] = weight
	return nil
}

// CuesFor returns the cues of a sense ordered by weight descending then word.
func (cs *ContextStore) CuesFor(ctx context.Context, senseID string) ([]model.ContextCue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs.Mu.RLock()
	defer cs.Mu.RUnlock()
	if err := cs.checkOpen(); err != nil {
		return nil, err
	}

	words := cs.Cues[senseID]
	cues := make([]model.ContextCue, 0, len(words))
	for word, weight := range words {
		cues = append(cues, model.ContextCue{SenseID: senseID, Word: word, Weight: weight})
	}
	sort.Slice(cues, func(i, j int) bool {
		if cues[i].Weight != cues[j].Weight {
			return cues[i].Weight > cues[j].Weight
		}
		return cues[i].Word < cues[j].Word
	})
	return cues, nil
}

// RecordChoice counts a user choice of senseID and keeps it in a bounded history.
func (cs *ContextStore) RecordChoice(ctx context.Context, senseID string, contextWords []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if senseID == "" {
		return errors.NewValidationError("sense_id", "cannot be empty")
	}

	cs.Mu.Lock()
	defer cs.Mu.Unlock()
	if err := cs.checkOpen(); err != nil {
		return err
	}

	cs.Usage[senseID]++
	cs.History = append(cs.History, ChoiceRecord{
		SenseID:      senseID,
		ContextWords: append([]string(nil), contextWords...),
		RecordedAt:   time.Now(),
	})
	if len(cs.History) > maxChoiceHistory {
		cs.History = cs.History[len(cs.History)-maxChoiceHistory:]
	}
	return nil
}

// BumpWeight adds delta to an existing cue, capped at max. A cue seen for the
// first time starts at DefaultCueWeight. The new weight is returned.
func (cs *ContextStore) BumpWeight(ctx context.Context, senseID, word string, delta, max float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if senseID == "" || strings.TrimSpace(word) == "" {
		return 0, errors.NewValidationError("cue", "sense id and word are required")
	}
	if delta <= 0 || max <= 0 {
		return 0, errors.NewValidationError("delta", "delta and cap must be positive")
	}

	cs.Mu.Lock()
	defer cs.Mu.Unlock()
	if err := cs.checkOpen(); err != nil {
		return 0, err
	}

	cues := cs.cuesForUnsafe(senseID)
	weight, exists := cues[word]
	if !exists {
		weight = math.Min(DefaultCueWeight, max)
	} else {
		weight = math.Min(weight+delta, max)
	}
	cues[word] = weight
	return weight, nil
}

// UsageCount returns how many times senseID was chosen.
func (cs *ContextStore) UsageCount(ctx context.Context, senseID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cs.Mu.RLock()
	defer cs.Mu.RUnlock()
	if err := cs.checkOpen(); err != nil {
		return 0, err
	}
	return cs.Usage[senseID], nil
}

func (cs *ContextStore) cuesForUnsafe(senseID string) map[string]float64 {
	cues, ok := cs.Cues[senseID]
	if !ok {
		cues = make(map[string]float64)
		cs.Cues[senseID] = cues
	}
	return cues
}

// GobEncode implements the gob.GobEncoder interface for ContextStore.
func (cs *ContextStore) GobEncode() ([]byte, error) {
	cs.Mu.RLock()
	defer cs.Mu.RUnlock()

	data := gobContextData{Cues: cs.Cues, Usage: cs.Usage, History: cs.History}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, fmt.Errorf("failed to gob encode context store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for ContextStore.
func (cs *ContextStore) GobDecode(data []byte) error {
	decoded := gobContextData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to gob decode context store data: %w", err)
	}

	cs.Mu.Lock()
	defer cs.Mu.Unlock()

	cs.Cues = decoded.Cues
	cs.Usage = decoded.Usage
	cs.History = decoded.History
	if cs.Cues == nil {
		cs.Cues = make(map[string]map[string]float64)
	}
	if cs.Usage == nil {
		cs.Usage = make(map[string]int)
	}
	return nil
}
