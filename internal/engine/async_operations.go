package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gcbaptista/go-dream-engine/internal/dictfile"
	"github.com/gcbaptista/go-dream-engine/model"
)

// importBatchSize is how many entries are stored between progress updates.
const importBatchSize = 100

// ImportTextAsync parses dictionary text in a background job and stores the
// accepted entries. source names the text in rejection messages.
func (e *Engine) ImportTextAsync(source, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("dictionary text cannot be empty")
	}

	jobID, err := e.jobs.Submit(model.JobTypeImportDictionary, source, map[string]string{
		"operation": "import_text",
	}, func(ctx context.Context, job model.Job) error {
		res, err := dictfile.Parse(strings.NewReader(text), source)
		if err != nil {
			return err
		}
		return e.storeImport(ctx, job.ID, res)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start import job: %w", err)
	}
	return jobID, nil
}

// ImportGlobAsync loads every dictionary file matching pattern in a background job.
func (e *Engine) ImportGlobAsync(pattern string) (string, error) {
	if !dictfile.ValidPattern(pattern) {
		return "", fmt.Errorf("invalid dictionary glob %q", pattern)
	}

	jobID, err := e.jobs.Submit(model.JobTypeReloadDictionary, pattern, map[string]string{
		"operation": "import_glob",
	}, func(ctx context.Context, job model.Job) error {
		return e.importGlob(ctx, pattern, &job)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start import job: %w", err)
	}
	return jobID, nil
}

// SnapshotAsync writes both stores in a background job.
func (e *Engine) SnapshotAsync() (string, error) {
	jobID, err := e.jobs.Submit(model.JobTypeSnapshot, e.cfg.DataDir, nil, func(context.Context, model.Job) error {
		return e.Persist()
	})
	if err != nil {
		return "", fmt.Errorf("failed to start snapshot job: %w", err)
	}
	return jobID, nil
}

// importGlob loads pattern into the dictionary. job is nil for the
// synchronous load at startup.
func (e *Engine) importGlob(ctx context.Context, pattern string, job *model.Job) error {
	res, files, err := dictfile.LoadGlob(pattern)
	if err != nil {
		return err
	}
	e.logger.Info("dictionary files matched", "pattern", pattern, "files", len(files))

	if job == nil {
		return e.storeImport(ctx, "", res)
	}
	e.jobs.SetMetadata(job.ID, "files", strconv.Itoa(len(files)))
	return e.storeImport(ctx, job.ID, res)
}

// storeImport writes parsed entries in batches, reporting progress when
// jobID is set, then saves the dictionary.
func (e *Engine) storeImport(ctx context.Context, jobID string, res *dictfile.Result) error {
	for _, rej := range res.Rejected {
		e.logger.Warn("rejected dictionary line", "error", rej)
	}

	total := len(res.Entries)
	stored := 0
	for start := 0; start < total; start += importBatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+importBatchSize, total)
		n, err := e.dictionary.Put(ctx, res.Entries[start:end]...)
		stored += n
		if err != nil {
			return fmt.Errorf("failed to store dictionary entries: %w", err)
		}
		if jobID != "" {
			e.jobs.UpdateJobProgress(jobID, end, total, "storing entries")
		}
	}

	if jobID != "" {
		e.jobs.SetMetadata(jobID, "entries", strconv.Itoa(stored))
		e.jobs.SetMetadata(jobID, "rejected", strconv.Itoa(len(res.Rejected)))
		e.jobs.UpdateJobProgress(jobID, total, total, "import complete")
	}
	e.logger.Info("dictionary imported", "entries", stored, "rejected", len(res.Rejected))
	e.persistDictionary()
	return nil
}
