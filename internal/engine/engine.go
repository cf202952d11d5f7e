// Package engine assembles the dictionary stores, the analysis pipeline and
// the background services behind one value used by the API and the CLI.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gcbaptista/go-dream-engine/config"
	"github.com/gcbaptista/go-dream-engine/internal/analysis"
	"github.com/gcbaptista/go-dream-engine/internal/dictfile"
	"github.com/gcbaptista/go-dream-engine/internal/feedback"
	"github.com/gcbaptista/go-dream-engine/internal/jobs"
	"github.com/gcbaptista/go-dream-engine/internal/seed"
	"github.com/gcbaptista/go-dream-engine/internal/trace"
	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
	"github.com/gcbaptista/go-dream-engine/store"
)

var _ services.DreamEngine = (*Engine)(nil)

// Engine owns the dictionary and the learned context weights, and runs
// analyses against them.
type Engine struct {
	dictionary *store.DictionaryStore
	weights    *store.ContextStore
	analyzer   *analysis.Analyzer
	learner    *feedback.Learner
	jobs       *jobs.Manager

	cfg    config.Config
	logger *slog.Logger

	mu      sync.Mutex
	watcher *dictfile.Watcher
	started bool
}

// New builds an engine from cfg. Snapshots in cfg.DataDir are loaded first;
// an empty dictionary is filled from the built-in seed, then files matching
// cfg.DictionaryGlob are imported on top. An empty DataDir disables snapshots.
func New(cfg config.Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Analyzer.ApplyDefaults()

	e := &Engine{
		dictionary: store.NewDictionaryStore(),
		weights:    store.NewContextStore(),
		cfg:        cfg,
		logger:     logger,
	}

	e.loadSnapshots()

	ctx := context.Background()
	if e.dictionary.Count() == 0 {
		n, err := seed.Load(ctx, e.dictionary, e.weights)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed dictionary: %w", err)
		}
		logger.Info("seed dictionary loaded", "entries", n)
	}

	if cfg.DictionaryGlob != "" {
		if err := e.importGlob(ctx, cfg.DictionaryGlob, nil); err != nil {
			return nil, err
		}
	}

	hook := trace.NewSlogHook(logger.With("component", "analysis"))
	e.analyzer = analysis.New(e.dictionary, e.weights,
		analysis.WithHook(hook),
		analysis.WithBatchConcurrency(cfg.Analyzer.BatchConcurrency),
	)
	e.learner = feedback.New(e.dictionary, e.weights, hook)
	e.jobs = jobs.NewManager(cfg.Analyzer.JobWorkers, logger)

	return e, nil
}

// Start launches the job manager and, when enabled, the dictionary watcher.
// The watcher stops when ctx is cancelled or Close is called.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return nil
	}

	e.jobs.Start()
	e.started = true

	if !e.cfg.WatchDictionary || e.cfg.DictionaryGlob == "" {
		return nil
	}
	w, err := dictfile.NewWatcher(e.cfg.DictionaryGlob, e.onDictionaryChanged, e.logger)
	if err != nil {
		return fmt.Errorf("failed to create dictionary watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to start dictionary watcher: %w", err)
	}
	e.watcher = w
	return nil
}

// Close stops background work and writes a final snapshot.
func (e *Engine) Close() error {
	e.mu.Lock()
	w := e.watcher
	e.watcher = nil
	e.mu.Unlock()

	var watchErr error
	if w != nil {
		watchErr = w.Close()
	}
	e.jobs.Stop()

	if err := e.Persist(); err != nil {
		return err
	}
	return watchErr
}

// Settings returns the analyzer limits in effect.
func (e *Engine) Settings() config.AnalyzerSettings {
	return e.cfg.Analyzer
}

// Dictionary exposes the dictionary store.
func (e *Engine) Dictionary() services.DictionaryManager {
	return e.dictionary
}

// Weights exposes the context weight store.
func (e *Engine) Weights() services.ContextWeightStore {
	return e.weights
}

// GetJob returns a background job by ID.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobs.GetJob(jobID)
}

// ListJobs returns background jobs, optionally filtered by status.
func (e *Engine) ListJobs(status *model.JobStatus) []*model.Job {
	return e.jobs.ListJobs(status)
}

// JobMetrics returns background job counters.
func (e *Engine) JobMetrics() model.JobMetricsData {
	return e.jobs.GetMetrics()
}

// Analyze runs one analysis. See analysis.Analyzer.Analyze.
func (e *Engine) Analyze(ctx context.Context, text string, choices map[string]string) (*model.Outcome, error) {
	return e.analyzer.Analyze(ctx, text, choices)
}

// AnalyzeBatch runs independent analyses concurrently.
func (e *Engine) AnalyzeBatch(ctx context.Context, requests []services.AnalysisRequest) ([]*model.Outcome, error) {
	return e.analyzer.AnalyzeBatch(ctx, requests)
}

// Search finds dictionary entries for query, with limit clamped to the
// configured bounds.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]services.SearchHit, error) {
	return e.analyzer.Matcher().Search(ctx, query, e.cfg.Analyzer.ClampSearchLimit(limit))
}

// HomonymGroup returns every sense of word.
func (e *Engine) HomonymGroup(ctx context.Context, word string) (model.HomonymGroup, error) {
	return e.analyzer.Resolver().Group(ctx, word)
}

// RecordChoice reinforces the chosen sense and saves the weights.
func (e *Engine) RecordChoice(ctx context.Context, keyword, senseID, contextText string) error {
	if err := e.learner.RecordChoice(ctx, keyword, senseID, contextText); err != nil {
		return err
	}
	e.persistWeights()
	return nil
}

// SubmitFeedback applies analysis feedback and saves the weights.
func (e *Engine) SubmitFeedback(ctx context.Context, fb model.Feedback) error {
	err := e.learner.Submit(ctx, fb)
	e.persistWeights()
	return err
}

// PutEntries adds or replaces dictionary entries and saves the dictionary.
func (e *Engine) PutEntries(ctx context.Context, entries ...model.DictionaryEntry) (int, error) {
	n, err := e.dictionary.Put(ctx, entries...)
	if err != nil {
		return n, err
	}
	e.persistDictionary()
	return n, nil
}

func (e *Engine) onDictionaryChanged(path string, res *dictfile.Result) {
	n, err := e.dictionary.Put(context.Background(), res.Entries...)
	if err != nil {
		e.logger.Error("failed to apply changed dictionary file", "path", path, "error", err)
		return
	}
	for _, rej := range res.Rejected {
		e.logger.Warn("rejected dictionary line", "error", rej)
	}
	e.logger.Info("dictionary reloaded", "path", path, "entries", n)
	e.persistDictionary()
}
