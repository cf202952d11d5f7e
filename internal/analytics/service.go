// Package analytics keeps a bounded log of analysis events and aggregates it
// into dashboard data.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/gcbaptista/go-dream-engine/model"
)

// DefaultMaxEvents is the number of events kept when none is configured.
const DefaultMaxEvents = 10000

// DictionaryStats reports the size of the dictionary for the dashboard.
type DictionaryStats interface {
	Count() int
	Homonyms(ctx context.Context) ([]model.HomonymGroup, error)
}

// Service implements analytics tracking and reporting
type Service struct {
	mutex         sync.RWMutex
	events        []model.AnalysisEvent
	feedbackCount int
	maxEvents     int
	dictionary    DictionaryStats
	dataFilePath  string
	logger        *slog.Logger

	saveMu sync.Mutex
	saves  sync.WaitGroup
	now    func() time.Time
}

// NewService creates an analytics service. An empty dataFilePath keeps events
// in memory only; otherwise existing events are loaded from it.
func NewService(dictionary DictionaryStats, dataFilePath string, maxEvents int, logger *slog.Logger) *Service {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		events:       make([]model.AnalysisEvent, 0),
		maxEvents:    maxEvents,
		dictionary:   dictionary,
		dataFilePath: dataFilePath,
		logger:       logger.With("component", "analytics"),
		now:          time.Now,
	}

	if err := s.loadData(); err != nil {
		s.logger.Warn("failed to load analytics data", "error", err)
	}
	return s
}

// TextHash fingerprints an analyzed text so the raw dream is never stored.
func TextHash(text string) string {
	return strconv.FormatUint(xxhash.Sum64String(text), 16)
}

// EventFromOutcome builds the event recorded for one analysis.
func EventFromOutcome(text string, out *model.Outcome, elapsed time.Duration) model.AnalysisEvent {
	event := model.AnalysisEvent{
		TextHash:     TextHash(text),
		ResponseTime: elapsed,
	}
	if out == nil {
		return event
	}
	event.Status = out.Status

	var resolutions []model.Resolution
	switch {
	case out.Result != nil:
		event.KeywordCount = len(out.Result.Keywords)
		event.Confidence = out.Result.Confidence
		event.TopKeywords = out.Result.Summary.TopKeywords
		resolutions = out.Result.Resolutions
	case out.Pending != nil:
		event.PendingCount = len(out.Pending.Pending)
		resolutions = out.Pending.Partial
	}
	for _, r := range resolutions {
		switch r.Method {
		case model.MethodAutoResolved:
			event.AutoResolved++
		case model.MethodUserChoice:
			event.UserChoices++
		}
	}
	return event
}

// TrackAnalysis records a new analysis event and persists the log in the background.
func (s *Service) TrackAnalysis(event model.AnalysisEvent) error {
	s.mutex.Lock()
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events
	if len(s.events) > s.maxEvents {
		s.events = s.events[len(s.events)-s.maxEvents:]
	}
	s.mutex.Unlock()

	s.saveAsync()
	return nil
}

// TrackFeedback counts one feedback submission.
func (s *Service) TrackFeedback() error {
	s.mutex.Lock()
	s.feedbackCount++
	s.mutex.Unlock()
	return nil
}

// Close waits for pending saves.
func (s *Service) Close() {
	s.saves.Wait()
}

// GetDashboardData returns complete analytics dashboard data
func (s *Service) GetDashboardData() (model.AnalyticsDashboard, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := s.now()
	yesterday := now.Add(-24 * time.Hour)
	prevDay := yesterday.Add(-24 * time.Hour)

	last24h := filterEventsByTime(s.events, yesterday, now)
	previous := filterEventsByTime(s.events, prevDay, yesterday)

	dashboard := model.AnalyticsDashboard{
		TotalAnalyses:          len(last24h),
		AnalysesChangePercent:  calculateChangePercent(len(last24h), len(previous)),
		AvgResponseTime:        calculateAvgResponseTime(last24h),
		AvgConfidence:          averageConfidence(last24h),
		NeedsChoiceRate:        needsChoiceRate(last24h),
		FeedbackCount:          s.feedbackCount,
		Performance24h:         hourlyPerformance(last24h),
		PopularKeywords:        popularKeywords(s.events, 5),
		ConfidenceDistribution: confidenceDistribution(last24h),
	}
	for _, e := range last24h {
		dashboard.AutoResolvedHomonyms += e.AutoResolved
		dashboard.UserResolvedHomonyms += e.UserChoices
	}

	if s.dictionary != nil {
		dashboard.DictionaryEntries = s.dictionary.Count()
		if groups, err := s.dictionary.Homonyms(context.Background()); err == nil {
			dashboard.HomonymGroups = len(groups)
		} else {
			s.logger.Warn("failed to count homonym groups", "error", err)
		}
	}

	return dashboard, nil
}

// filterEventsByTime returns events in (after, before]
func filterEventsByTime(events []model.AnalysisEvent, after, before time.Time) []model.AnalysisEvent {
	var filtered []model.AnalysisEvent
	for _, event := range events {
		if event.Timestamp.After(after) && !event.Timestamp.After(before) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateChangePercent calculates percentage change between current and previous values
func calculateChangePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func calculateAvgResponseTime(events []model.AnalysisEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

func averageConfidence(events []model.AnalysisEvent) float64 {
	total, n := 0, 0
	for _, e := range events {
		if e.Status == model.StatusCompleted {
			total += e.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

func needsChoiceRate(events []model.AnalysisEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	n := 0
	for _, e := range events {
		if e.Status == model.StatusNeedsChoice {
			n++
		}
	}
	return float64(n) / float64(len(events)) * 100
}

func hourlyPerformance(events []model.AnalysisEvent) []model.AnalysisPerformanceHourly {
	hourly := make(map[int][]model.AnalysisEvent)
	for _, event := range events {
		hour := event.Timestamp.Hour()
		hourly[hour] = append(hourly[hour], event)
	}

	performance := make([]model.AnalysisPerformanceHourly, 0, 24)
	for hour := 0; hour < 24; hour++ {
		performance = append(performance, model.AnalysisPerformanceHourly{
			Hour:            hour,
			AnalysisCount:   len(hourly[hour]),
			AvgResponseTime: calculateAvgResponseTime(hourly[hour]),
		})
	}
	return performance
}

// popularKeywords returns the most frequent top keywords, count desc then keyword asc.
func popularKeywords(events []model.AnalysisEvent, limit int) []model.PopularKeyword {
	counts := make(map[string]int)
	for _, event := range events {
		for _, kw := range event.TopKeywords {
			counts[kw]++
		}
	}

	popular := make([]model.PopularKeyword, 0, len(counts))
	for kw, n := range counts {
		popular = append(popular, model.PopularKeyword{Keyword: kw, Count: n})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Count != popular[j].Count {
			return popular[i].Count > popular[j].Count
		}
		return popular[i].Keyword < popular[j].Keyword
	})
	if len(popular) > limit {
		popular = popular[:limit]
	}
	return popular
}

func confidenceDistribution(events []model.AnalysisEvent) model.ConfidenceDistribution {
	var dist model.ConfidenceDistribution
	for _, e := range events {
		if e.Status != model.StatusCompleted {
			continue
		}
		switch {
		case e.Confidence >= 85:
			dist.High++
		case e.Confidence >= 70:
			dist.Good++
		case e.Confidence >= 50:
			dist.Moderate++
		default:
			dist.Low++
		}
	}
	return dist
}

func (s *Service) saveAsync() {
	if s.dataFilePath == "" {
		return
	}
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		if err := s.saveData(); err != nil {
			s.logger.Warn("failed to save analytics data", "error", err)
		}
	}()
}

// loadData loads analytics data from file
func (s *Service) loadData() error {
	if s.dataFilePath == "" {
		return nil
	}
	data, err := os.ReadFile(s.dataFilePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read analytics file: %w", err)
	}

	var events []model.AnalysisEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("failed to unmarshal analytics data: %w", err)
	}
	if len(events) > s.maxEvents {
		events = events[len(events)-s.maxEvents:]
	}
	s.events = events
	return nil
}

// saveData writes the current event log to file
func (s *Service) saveData() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mutex.RLock()
	data, err := json.MarshalIndent(s.events, "", "  ")
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal analytics data: %w", err)
	}

	dir := filepath.Dir(s.dataFilePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}
	if err := os.WriteFile(s.dataFilePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write analytics file: %w", err)
	}
	return nil
}
