package monitoring

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/qdag-xyz/go-qdag/passmanager"
)

// Monitor tracks transpile runs as they execute. It is safe for concurrent
// readers (a dashboard polling while a run progresses), though runs
// themselves execute sequentially.
type Monitor struct {
	mu sync.RWMutex

	config     Config
	runs       map[string]*RunStatus
	order      []string
	alerts     []Alert
	stats      Stats
	passTotals map[string]time.Duration

	onAlert []func(Alert)
	onEvent []func(Event)

	// Time source (for testing)
	now func() time.Time
}

// NewMonitor creates a monitor with the given configuration.
func NewMonitor(config Config) *Monitor {
	return &Monitor{
		config:     config,
		runs:       make(map[string]*RunStatus),
		passTotals: make(map[string]time.Duration),
		now:        time.Now,
	}
}

// WithTimeSource sets a custom time source (useful for testing).
func (m *Monitor) WithTimeSource(now func() time.Time) *Monitor {
	m.now = now
	return m
}

// OnAlert registers a handler for raised alerts.
func (m *Monitor) OnAlert(handler func(Alert)) *Monitor {
	m.onAlert = append(m.onAlert, handler)
	return m
}

// OnEvent registers a handler for every monitor event, in emission order.
// The broadcast server attaches here.
func (m *Monitor) OnEvent(handler func(Event)) *Monitor {
	m.onEvent = append(m.onEvent, handler)
	return m
}

// Attach wires the monitor into a pass manager's callbacks.
func (m *Monitor) Attach(pm *passmanager.PassManager) *Monitor {
	pm.OnRunStart(m.RunStarted)
	pm.OnPassComplete(m.PassCompleted)
	pm.OnRunComplete(m.RunFinished)
	return m
}

// RunStarted begins tracking a new run.
func (m *Monitor) RunStarted(info *passmanager.RunInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := &RunStatus{
		RunID:         info.RunID,
		StartTime:     info.StartedAt,
		LastEventTime: info.StartedAt,
		State:         string(passmanager.Running),
	}
	m.runs[info.RunID] = status
	m.order = append(m.order, info.RunID)
	m.stats.TotalRuns++

	m.emit(Event{Type: "run_started", Timestamp: m.now(), RunID: info.RunID})
}

// PassCompleted records one pass execution for a tracked run.
func (m *Monitor) PassCompleted(info *passmanager.RunInfo, rec passmanager.PassRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status, exists := m.runs[info.RunID]
	if !exists {
		return
	}

	now := m.now()
	status.LastEventTime = now
	status.PassCount++
	status.CurrentPass = rec.Pass
	status.TotalDuration += rec.Duration
	if rec.Changed {
		status.Changes++
	}
	m.stats.PassExecutions++
	m.passTotals[rec.Pass] += rec.Duration

	if m.config.SlowPassThreshold > 0 && rec.Duration > m.config.SlowPassThreshold {
		m.raiseAlert(Alert{
			Type:      AlertSlowPass,
			Timestamp: now,
			RunID:     info.RunID,
			Pass:      rec.Pass,
			Message: fmt.Sprintf("pass %s took %v (threshold %v)",
				rec.Pass, rec.Duration, m.config.SlowPassThreshold),
		})
	}

	m.emit(Event{
		Type:      "pass_completed",
		Timestamp: now,
		RunID:     info.RunID,
		Pass:      rec.Pass,
		Changed:   rec.Changed,
		Payload:   rec,
	})
}

// RunFinished closes out a tracked run, raising alerts for failures and
// groups that hit their iteration cap.
func (m *Monitor) RunFinished(res *passmanager.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status, exists := m.runs[res.RunID]
	if !exists {
		return
	}

	now := m.now()
	status.LastEventTime = now
	status.State = string(res.State)
	status.CurrentPass = ""

	switch res.State {
	case passmanager.Completed:
		m.stats.CompletedRuns++
	case passmanager.Failed:
		m.stats.FailedRuns++
		status.FailedPass = res.FailedPass
		m.raiseAlert(Alert{
			Type:      AlertRunFailed,
			Timestamp: now,
			RunID:     res.RunID,
			Pass:      res.FailedPass,
			Message:   fmt.Sprintf("run failed in pass %s: %v", res.FailedPass, res.Err),
		})
	}

	for _, groupIdx := range res.CapReached {
		m.raiseAlert(Alert{
			Type:      AlertIterationCap,
			Timestamp: now,
			RunID:     res.RunID,
			Message:   fmt.Sprintf("group %d stopped at iteration cap without converging", groupIdx),
		})
	}

	m.emit(Event{Type: "run_finished", Timestamp: now, RunID: res.RunID, Payload: status})
	m.pruneLocked()
}

// raiseAlert must be called with the lock held.
func (m *Monitor) raiseAlert(alert Alert) {
	m.alerts = append(m.alerts, alert)
	m.stats.AlertsRaised++
	for _, h := range m.onAlert {
		h(alert)
	}
	m.emit(Event{Type: "alert", Timestamp: alert.Timestamp, RunID: alert.RunID,
		Pass: alert.Pass, Payload: alert})
}

// emit must be called with the lock held.
func (m *Monitor) emit(ev Event) {
	for _, h := range m.onEvent {
		h(ev)
	}
}

// pruneLocked drops the oldest finished runs past the retention bound.
func (m *Monitor) pruneLocked() {
	if m.config.KeepFinished <= 0 {
		return
	}
	finished := 0
	for _, id := range m.order {
		if m.runs[id].State != string(passmanager.Running) {
			finished++
		}
	}
	for i := 0; finished > m.config.KeepFinished && i < len(m.order); {
		id := m.order[i]
		if m.runs[id].State == string(passmanager.Running) {
			i++
			continue
		}
		delete(m.runs, id)
		m.order = append(m.order[:i], m.order[i+1:]...)
		finished--
	}
}

// Run returns a snapshot of one tracked run.
func (m *Monitor) Run(runID string) (RunStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status, exists := m.runs[runID]
	if !exists {
		return RunStatus{}, false
	}
	return *status, true
}

// Runs returns snapshots of all tracked runs in start order.
func (m *Monitor) Runs() []RunStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RunStatus, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.runs[id])
	}
	return out
}

// Alerts returns all raised alerts, oldest first.
func (m *Monitor) Alerts() []Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Alert(nil), m.alerts...)
}

// AlertsByType returns raised alerts of one type.
func (m *Monitor) AlertsByType(t AlertType) []Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Alert
	for _, a := range m.alerts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// Stats returns aggregate counters across all observed runs.
func (m *Monitor) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// SlowestPasses returns up to n pass names ranked by total observed
// execution time across all runs.
func (m *Monitor) SlowestPasses(n int) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type entry struct {
		name  string
		total time.Duration
	}
	entries := make([]entry, 0, len(m.passTotals))
	for name, total := range m.passTotals {
		entries = append(entries, entry{name, total})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].total != entries[j].total {
			return entries[i].total > entries[j].total
		}
		return entries[i].name < entries[j].name
	})
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = entries[i].name
	}
	return out
}
