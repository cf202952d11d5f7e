// Package testing provides utilities and helpers for testing the dream engine.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-dream-engine/config"
	"github.com/gcbaptista/go-dream-engine/internal/analytics"
	"github.com/gcbaptista/go-dream-engine/internal/engine"
	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
)

// TestConfig returns a configuration rooted in a per-test data directory with
// file logging disabled.
func TestConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.LogFile = ""
	return cfg
}

// CreateTestEngine creates a started engine that is closed when the test ends.
func CreateTestEngine(t *testing.T, tweak ...func(*config.Config)) *engine.Engine {
	t.Helper()
	cfg := TestConfig(t)
	for _, fn := range tweak {
		fn(&cfg)
	}

	eng, err := engine.New(cfg, nil)
	require.NoError(t, err, "Failed to create test engine")
	require.NoError(t, eng.Start(context.Background()), "Failed to start test engine")

	t.Cleanup(func() {
		require.NoError(t, eng.Close(), "Failed to close test engine")
	})
	return eng
}

// CreateTestTracker creates an in-memory analytics service for eng.
func CreateTestTracker(t *testing.T, eng *engine.Engine) *analytics.Service {
	t.Helper()
	tracker := analytics.NewService(eng.Dictionary(), "", 0, nil)
	t.Cleanup(tracker.Close)
	return tracker
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      5 * time.Second,
		PollInterval: 10 * time.Millisecond,
	}
}

// WaitForJobCompletion polls a job until it reaches a terminal status or times out.
// A failed or cancelled job fails the test.
func WaitForJobCompletion(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not complete within %v timeout", jobID, opts.Timeout)
			return nil
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted:
				if opts.LogProgress && job.CompletedAt != nil {
					t.Logf("Job %s completed in %v", jobID, job.CompletedAt.Sub(job.CreatedAt))
				}
				return job
			case model.JobStatusFailed, model.JobStatusCancelled:
				t.Fatalf("Job %s ended as %s: %s", jobID, job.Status, job.Error)
				return nil
			case model.JobStatusRunning:
				if opts.LogProgress && job.Progress != nil {
					t.Logf("Job %s progress: %d/%d - %s",
						jobID,
						job.Progress.Current,
						job.Progress.Total,
						job.Progress.Message)
				}
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType, expectedTarget string) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.Equal(t, expectedTarget, job.Target, "Job target should match")
}

// AnalysisTestCase describes one dream text and what its analysis must contain.
type AnalysisTestCase struct {
	Name         string
	Text         string
	Choices      map[string]string
	NeedsChoice  []string                  // keywords expected to be pending
	WantKeywords []string                  // matched dictionary words expected in the result
	WantSenses   map[string]model.Category // resolved homonym -> category
}

// RunAnalysisTests runs a suite of analysis cases against an analyzer.
func RunAnalysisTests(t *testing.T, analyzer services.Analyzer, tests []AnalysisTestCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			out, err := analyzer.Analyze(context.Background(), tt.Text, tt.Choices)
			require.NoError(t, err)

			if len(tt.NeedsChoice) > 0 {
				require.False(t, out.Completed(), "expected pending choices")
				pending := make([]string, 0, len(out.Pending.Pending))
				for _, p := range out.Pending.Pending {
					pending = append(pending, p.Keyword)
				}
				assert.ElementsMatch(t, tt.NeedsChoice, pending)
				return
			}

			require.True(t, out.Completed(), "expected a completed analysis, got %+v", out.Pending)
			matched := make(map[string]bool, len(out.Result.Keywords))
			for _, k := range out.Result.Keywords {
				matched[k.Matched] = true
			}
			for _, want := range tt.WantKeywords {
				assert.True(t, matched[want], "keyword %s missing from result", want)
			}
			for word, category := range tt.WantSenses {
				found := false
				for _, r := range out.Result.Resolutions {
					if r.Keyword == word {
						found = true
						assert.Equal(t, category, r.SelectedSense.Category, "sense of %s", word)
					}
				}
				assert.True(t, found, "no resolution for %s", word)
			}
		})
	}
}
