package model

import (
	"time"
)

// JobStatus represents the status of a long-running job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// JobType represents the type of job being executed
type JobType string

const (
	JobTypeImportDictionary JobType = "import_dictionary"
	JobTypeReloadDictionary JobType = "reload_dictionary"
	JobTypeSnapshot         JobType = "snapshot"
)

// Job represents a long-running background operation
type Job struct {
	ID          string            `json:"id"`
	Type        JobType           `json:"type"`
	Status      JobStatus         `json:"status"`
	Target      string            `json:"target"` // source file, glob or snapshot directory
	Progress    *JobProgress      `json:"progress,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// JobProgress tracks the progress of a job
type JobProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}

// GetProgressPercentage returns the progress as a percentage (0-100)
func (jp *JobProgress) GetProgressPercentage() float64 {
	if jp.Total == 0 {
		return 0
	}
	return float64(jp.Current) / float64(jp.Total) * 100
}

// Terminal reports whether a job in this status will not change again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// JobTypeStats summarizes the jobs of one type.
type JobTypeStats struct {
	Created         int64         `json:"created"`
	Completed       int64         `json:"completed"`
	Failed          int64         `json:"failed"`
	AverageDuration time.Duration `json:"average_duration_ns"`
}

// JobMetricsData is a point-in-time copy of the job metrics.
type JobMetricsData struct {
	JobsCreated          int64                    `json:"jobs_created"`
	JobsCompleted        int64                    `json:"jobs_completed"`
	JobsFailed           int64                    `json:"jobs_failed"`
	TotalExecutionTime   time.Duration            `json:"total_execution_time_ns"`
	AverageExecutionTime time.Duration            `json:"average_execution_time_ns"`
	SuccessRate          float64                  `json:"success_rate"`
	CurrentWorkload      int64                    `json:"current_workload"`
	ByType               map[JobType]JobTypeStats `json:"by_type"`
	JobsByStatus         map[JobStatus]int64      `json:"jobs_by_status"`
	LastUpdated          time.Time                `json:"last_updated"`
}
