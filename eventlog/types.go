// Package eventlog records and serializes transpiler pass-execution traces.
// Every pass execution becomes one event in its run's trace; traces round-
// trip through JSONL and CSV for offline analysis of pass pipelines.
package eventlog

import (
	"sort"
	"time"

	"github.com/qdag-xyz/go-qdag/passmanager"
)

// Event is one pass execution within a run.
type Event struct {
	RunID     string        `json:"run_id"`
	Seq       int           `json:"seq"`
	Pass      string        `json:"pass"`
	Kind      string        `json:"kind"`
	Group     int           `json:"group"`
	Iteration int           `json:"iteration"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration_ns"`
	Changed   bool          `json:"changed"`
	Error     string        `json:"error,omitempty"`
}

// Trace is the ordered event sequence of a single run.
type Trace struct {
	RunID  string
	Events []Event
}

// Log collects traces for any number of runs.
type Log struct {
	Runs map[string]*Trace
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{Runs: make(map[string]*Trace)}
}

// AddEvent appends an event to its run's trace, creating the trace on first
// sight of the run ID.
func (l *Log) AddEvent(ev Event) {
	trace, exists := l.Runs[ev.RunID]
	if !exists {
		trace = &Trace{RunID: ev.RunID}
		l.Runs[ev.RunID] = trace
	}
	trace.Events = append(trace.Events, ev)
}

// RunIDs returns the logged run IDs, sorted.
func (l *Log) RunIDs() []string {
	ids := make([]string, 0, len(l.Runs))
	for id := range l.Runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the total event count across runs.
func (l *Log) Len() int {
	total := 0
	for _, trace := range l.Runs {
		total += len(trace.Events)
	}
	return total
}

// PassDurations sums execution time per pass name across all runs.
func (l *Log) PassDurations() map[string]time.Duration {
	totals := make(map[string]time.Duration)
	for _, trace := range l.Runs {
		for _, ev := range trace.Events {
			totals[ev.Pass] += ev.Duration
		}
	}
	return totals
}

// Recorder adapts a Log to the pass manager's completion callback.
//
//	log := eventlog.NewLog()
//	pm.OnPassComplete(eventlog.Recorder(log, time.Now))
func Recorder(l *Log, now func() time.Time) func(*passmanager.RunInfo, passmanager.PassRecord) {
	return func(info *passmanager.RunInfo, rec passmanager.PassRecord) {
		l.AddEvent(Event{
			RunID:     info.RunID,
			Seq:       rec.Seq,
			Pass:      rec.Pass,
			Kind:      string(rec.Kind),
			Group:     rec.Group,
			Iteration: rec.Iteration,
			Timestamp: now(),
			Duration:  rec.Duration,
			Changed:   rec.Changed,
			Error:     rec.Err,
		})
	}
}
