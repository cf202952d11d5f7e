package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gcbaptista/go-dream-engine/internal/persistence"
)

const (
	dictionaryFile = "dictionary.gob"
	contextFile    = "context.gob"
)

func (e *Engine) snapshotPath(name string) string {
	return filepath.Join(e.cfg.DataDir, name)
}

// loadSnapshots restores both stores from the data directory. A missing file
// leaves the store empty; a corrupt one is logged and ignored.
func (e *Engine) loadSnapshots() {
	if e.cfg.DataDir == "" {
		return
	}
	e.logger.Info("loading snapshots", "dir", e.cfg.DataDir)

	for _, snap := range []struct {
		file   string
		target any
	}{
		{dictionaryFile, e.dictionary},
		{contextFile, e.weights},
	} {
		path := e.snapshotPath(snap.file)
		err := persistence.LoadGob(path, snap.target)
		switch {
		case errors.Is(err, os.ErrNotExist):
			e.logger.Info("snapshot not found, starting empty", "file", path)
		case err != nil:
			e.logger.Warn("failed to load snapshot, starting empty", "file", path, "error", err)
		}
	}
	e.logger.Info("snapshots loaded", "entries", e.dictionary.Count())
}

// Persist writes both stores to the data directory.
func (e *Engine) Persist() error {
	if e.cfg.DataDir == "" {
		return nil
	}
	if err := persistence.SaveGob(e.snapshotPath(dictionaryFile), e.dictionary); err != nil {
		return fmt.Errorf("failed to save dictionary: %w", err)
	}
	if err := persistence.SaveGob(e.snapshotPath(contextFile), e.weights); err != nil {
		return fmt.Errorf("failed to save context weights: %w", err)
	}
	return nil
}

func (e *Engine) persistDictionary() {
	if e.cfg.DataDir == "" {
		return
	}
	if err := persistence.SaveGob(e.snapshotPath(dictionaryFile), e.dictionary); err != nil {
		e.logger.Warn("failed to save dictionary", "error", err)
	}
}

func (e *Engine) persistWeights() {
	if e.cfg.DataDir == "" {
		return
	}
	if err := persistence.SaveGob(e.snapshotPath(contextFile), e.weights); err != nil {
		e.logger.Warn("failed to save context weights", "error", err)
	}
}
