// Package monitoring provides real-time observation of transpile runs:
// per-run progress tracking, aggregate statistics, threshold alerts, and a
// WebSocket broadcast server for live dashboards. It consumes the pass
// manager's callbacks and never touches the DAG itself.
package monitoring

import (
	"time"
)

// RunStatus tracks one run in flight or finished.
type RunStatus struct {
	RunID         string        `json:"run_id"`
	StartTime     time.Time     `json:"start_time"`
	LastEventTime time.Time     `json:"last_event_time"`
	State         string        `json:"state"`
	PassCount     int           `json:"pass_count"`
	Changes       int           `json:"changes"`
	TotalDuration time.Duration `json:"total_duration"`
	CurrentPass   string        `json:"current_pass"`
	FailedPass    string        `json:"failed_pass,omitempty"`
}

// AlertType classifies monitor alerts.
type AlertType string

const (
	// AlertSlowPass fires when one pass execution exceeds the configured
	// duration threshold.
	AlertSlowPass AlertType = "slow_pass"
	// AlertIterationCap fires when a fixed-point group stops at its
	// iteration cap without converging.
	AlertIterationCap AlertType = "iteration_cap"
	// AlertRunFailed fires when a run ends in the failed state.
	AlertRunFailed AlertType = "run_failed"
)

// Alert is a threshold or failure notification.
type Alert struct {
	Type      AlertType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Pass      string    `json:"pass,omitempty"`
	Message   string    `json:"message"`
}

// Stats aggregates across all observed runs.
type Stats struct {
	TotalRuns      int `json:"total_runs"`
	CompletedRuns  int `json:"completed_runs"`
	FailedRuns     int `json:"failed_runs"`
	PassExecutions int `json:"pass_executions"`
	AlertsRaised   int `json:"alerts_raised"`
}

// Config tunes monitor behavior.
type Config struct {
	// SlowPassThreshold triggers AlertSlowPass; zero disables the check.
	SlowPassThreshold time.Duration

	// KeepFinished bounds how many finished runs stay queryable; zero
	// keeps all.
	KeepFinished int
}

// Event is the wire shape broadcast to dashboard clients.
type Event struct {
	Type      string      `json:"type"` // "run_started", "pass_completed", "run_finished", "alert"
	Timestamp time.Time   `json:"timestamp"`
	RunID     string      `json:"run_id,omitempty"`
	Pass      string      `json:"pass,omitempty"`
	Changed   bool        `json:"changed,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}
