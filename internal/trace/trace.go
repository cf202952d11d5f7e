// Package trace carries structured decision events out of the analysis pipeline.
// Components emit events through a Hook; production wires SlogHook, tests use
// Recorder to assert on why a decision was made.
package trace

import (
	"context"
	"log/slog"
	"sync"
)

// Pipeline stages that emit events.
const (
	StageParse    = "parse"
	StageMatch    = "match"
	StageHomonym  = "homonym"
	StageAnalysis = "analysis"
	StageFeedback = "feedback"
)

// Event is one traced decision.
type Event struct {
	Stage string
	Name  string
	Word  string
	Attrs map[string]any
}

// Hook receives trace events. Implementations must be safe for concurrent use.
type Hook interface {
	OnEvent(ctx context.Context, ev Event)
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, ev Event)

// OnEvent calls f.
func (f HookFunc) OnEvent(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// Nop discards every event.
type Nop struct{}

// OnEvent does nothing.
func (Nop) OnEvent(context.Context, Event) {}

// OrNop returns h, or Nop when h is nil.
func OrNop(h Hook) Hook {
	if h == nil {
		return Nop{}
	}
	return h
}

// SlogHook writes events as debug records.
type SlogHook struct {
	Logger *slog.Logger
}

// NewSlogHook creates a hook writing to logger, or slog.Default() when nil.
func NewSlogHook(logger *slog.Logger) *SlogHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogHook{Logger: logger}
}

// OnEvent logs ev at debug level.
func (h *SlogHook) OnEvent(ctx context.Context, ev Event) {
	args := make([]any, 0, 4+2*len(ev.Attrs))
	args = append(args, "stage", ev.Stage, "word", ev.Word)
	for k, v := range ev.Attrs {
		args = append(args, k, v)
	}
	h.Logger.DebugContext(ctx, ev.Name, args...)
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// OnEvent stores ev.
func (r *Recorder) OnEvent(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Named returns recorded events with the given name.
func (r *Recorder) Named(name string) []Event {
	var out []Event
	for _, ev := range r.Events() {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
