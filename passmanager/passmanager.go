// Package passmanager implements the transpiler's pass-execution framework:
// an ordered schedule of analysis and transformation passes run against one
// DAG and one shared property set.
//
// Key concepts:
//   - Analysis pass: reads the DAG, writes derived properties, never
//     rewrites the graph; any DAG it returns is discarded
//   - Transformation pass: may rewrite the DAG; returning a non-nil DAG
//     reports a change and replaces the current DAG for later passes
//   - Group: a repeatable block of passes re-executed until no
//     transformation in the block reports a change or an iteration cap
//     is reached
//   - Property set: shared key-value state written by analyses, checked
//     against each pass's declared requirements before it runs
//
// A run moves Idle -> Running -> Completed or Failed. The first pass
// failure aborts the run; the result carries the failing pass's identity and
// the DAG as of the last successfully completed pass.
package passmanager

import (
	"time"

	"tlog.app/go/tlog"

	"github.com/qdag-xyz/go-qdag/dag"
	"github.com/qdag-xyz/go-qdag/property"
)

// Kind classifies passes.
type Kind string

const (
	// Analysis passes derive properties and leave the DAG untouched.
	Analysis Kind = "analysis"
	// Transformation passes may rewrite the DAG.
	Transformation Kind = "transformation"
)

// Declarations names the properties a pass interacts with, for dependency
// ordering and invalidation. All lists may be empty.
type Declarations struct {
	// Requires must exist in the property set before the pass runs.
	Requires []string
	// Preserves are exempt from the pass's own invalidation.
	Preserves []string
	// Invalidates are removed from the property set after the pass runs,
	// unless the pass rewrote or preserved them.
	Invalidates []string
}

// Pass is the unit of work the framework schedules. Implementations must be
// safe to run repeatedly within one run (groups re-execute their passes) but
// need not be safe for concurrent use.
//
// Run returns a non-nil DAG to report a change and hand the framework a
// replacement graph; returning nil reports "no change". Analysis passes
// conventionally return nil; any DAG they return is discarded.
type Pass interface {
	Name() string
	Kind() Kind
	Declarations() Declarations
	Run(d *dag.DAG, props *property.Set) (*dag.DAG, error)
}

// DefaultMaxIterations caps fixed-point groups that never converge.
const DefaultMaxIterations = 1000

// item is one schedule entry: a single pass or a repeatable group.
type item struct {
	pass  Pass
	group *group
}

type group struct {
	passes        []Pass
	maxIterations int
}

// PassManager owns an ordered pass schedule and executes it with Run.
// Schedule construction is chainable; a manager may be reused for multiple
// sequential runs but never for concurrent ones.
type PassManager struct {
	items []item
	state State

	log *tlog.Logger
	now func() time.Time

	onRunStart     []func(*RunInfo)
	onPassComplete []func(*RunInfo, PassRecord)
	onRunComplete  []func(*Result)
}

// New creates an empty pass manager.
func New() *PassManager {
	return &PassManager{
		state: Idle,
		now:   time.Now,
	}
}

// WithLogger attaches a structured logger for pass-level progress. A nil
// logger (the default) disables logging.
func (pm *PassManager) WithLogger(log *tlog.Logger) *PassManager {
	pm.log = log
	return pm
}

// WithTimeSource sets a custom time source (useful for testing).
func (pm *PassManager) WithTimeSource(now func() time.Time) *PassManager {
	pm.now = now
	return pm
}

// Append adds one pass to the end of the schedule.
func (pm *PassManager) Append(p Pass) *PassManager {
	pm.items = append(pm.items, item{pass: p})
	return pm
}

// AppendGroup adds a repeatable block of passes. The block re-executes until
// a full iteration in which no transformation pass reports a change, or
// until maxIterations is reached, whichever comes first. Reaching the cap is
// recorded and logged, not an error. A non-positive maxIterations falls back
// to DefaultMaxIterations.
func (pm *PassManager) AppendGroup(maxIterations int, passes ...Pass) *PassManager {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	pm.items = append(pm.items, item{group: &group{
		passes:        passes,
		maxIterations: maxIterations,
	}})
	return pm
}

// Passes returns the scheduled passes in execution order, with group members
// listed once in place.
func (pm *PassManager) Passes() []Pass {
	var out []Pass
	for _, it := range pm.items {
		if it.group != nil {
			out = append(out, it.group.passes...)
			continue
		}
		out = append(out, it.pass)
	}
	return out
}

// OnRunStart registers a handler invoked when a run begins.
func (pm *PassManager) OnRunStart(h func(*RunInfo)) *PassManager {
	pm.onRunStart = append(pm.onRunStart, h)
	return pm
}

// OnPassComplete registers a handler invoked after every pass execution,
// successful or failed.
func (pm *PassManager) OnPassComplete(h func(*RunInfo, PassRecord)) *PassManager {
	pm.onPassComplete = append(pm.onPassComplete, h)
	return pm
}

// OnRunComplete registers a handler invoked when a run finishes in either
// terminal state.
func (pm *PassManager) OnRunComplete(h func(*Result)) *PassManager {
	pm.onRunComplete = append(pm.onRunComplete, h)
	return pm
}

// State returns the manager's current run state.
func (pm *PassManager) State() State { return pm.state }
