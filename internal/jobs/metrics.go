package jobs

import (
	"sync"
	"time"

	"github.com/gcbaptista/go-dream-engine/model"
)

// recentDurations is how many execution times are kept per job type.
const recentDurations = 100

type typeCounters struct {
	created, completed, failed int64
	durations                  []time.Duration
}

// JobMetrics tracks counters for job operations
type JobMetrics struct {
	mu          sync.RWMutex
	created     int64
	completed   int64
	failed      int64
	totalTime   time.Duration
	byType      map[model.JobType]*typeCounters
	byStatus    map[model.JobStatus]int64
	lastUpdated time.Time
}

// NewJobMetrics creates a new metrics collector
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{
		byType:      make(map[model.JobType]*typeCounters),
		byStatus:    make(map[model.JobStatus]int64),
		lastUpdated: time.Now(),
	}
}

func (m *JobMetrics) counters(jobType model.JobType) *typeCounters {
	c, ok := m.byType[jobType]
	if !ok {
		c = &typeCounters{}
		m.byType[jobType] = c
	}
	return c
}

// RecordJobCreated counts a new pending job.
func (m *JobMetrics) RecordJobCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created++
	m.counters(jobType).created++
	m.byStatus[model.JobStatusPending]++
	m.lastUpdated = time.Now()
}

// RecordJobStatusChange moves one job between status buckets.
func (m *JobMetrics) RecordJobStatusChange(oldStatus, newStatus model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldStatus != "" && m.byStatus[oldStatus] > 0 {
		m.byStatus[oldStatus]--
	}
	m.byStatus[newStatus]++
	m.lastUpdated = time.Now()
}

// RecordJobCompleted records a successful run and its duration.
func (m *JobMetrics) RecordJobCompleted(jobType model.JobType, executionTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.completed++
	m.totalTime += executionTime

	c := m.counters(jobType)
	c.completed++
	c.durations = append(c.durations, executionTime)
	if len(c.durations) > recentDurations {
		c.durations = c.durations[1:]
	}
	m.lastUpdated = time.Now()
}

// RecordJobFailed records a failed run.
func (m *JobMetrics) RecordJobFailed(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failed++
	m.counters(jobType).failed++
	m.lastUpdated = time.Now()
}

// GetMetrics returns a copy of the current metrics.
func (m *JobMetrics) GetMetrics() model.JobMetricsData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data := model.JobMetricsData{
		JobsCreated:        m.created,
		JobsCompleted:      m.completed,
		JobsFailed:         m.failed,
		TotalExecutionTime: m.totalTime,
		SuccessRate:        m.successRate(),
		CurrentWorkload:    m.byStatus[model.JobStatusPending] + m.byStatus[model.JobStatusRunning],
		ByType:             make(map[model.JobType]model.JobTypeStats, len(m.byType)),
		JobsByStatus:       make(map[model.JobStatus]int64, len(m.byStatus)),
		LastUpdated:        m.lastUpdated,
	}
	if m.completed > 0 {
		data.AverageExecutionTime = m.totalTime / time.Duration(m.completed)
	}
	for t, c := range m.byType {
		data.ByType[t] = model.JobTypeStats{
			Created:         c.created,
			Completed:       c.completed,
			Failed:          c.failed,
			AverageDuration: average(c.durations),
		}
	}
	for s, n := range m.byStatus {
		data.JobsByStatus[s] = n
	}
	return data
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return total / time.Duration(len(durations))
}

// GetSuccessRate returns the share of finished jobs that succeeded. It is 1
// before any job has finished.
func (m *JobMetrics) GetSuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.successRate()
}

func (m *JobMetrics) successRate() float64 {
	finished := m.completed + m.failed
	if finished == 0 {
		return 1.0
	}
	return float64(m.completed) / float64(finished)
}

// GetCurrentWorkload returns the number of pending and running jobs.
func (m *JobMetrics) GetCurrentWorkload() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.byStatus[model.JobStatusPending] + m.byStatus[model.JobStatusRunning]
}
