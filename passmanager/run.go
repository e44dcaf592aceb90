package passmanager

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"tlog.app/go/errors"

	"github.com/qdag-xyz/go-qdag/dag"
	"github.com/qdag-xyz/go-qdag/property"
)

// State is the lifecycle of one framework run.
type State string

const (
	// Idle means no run is in progress.
	Idle State = "idle"
	// Running means a run is executing passes.
	Running State = "running"
	// Completed means the last run executed every pass.
	Completed State = "completed"
	// Failed means the last run aborted on a pass failure.
	Failed State = "failed"
)

// RunInfo identifies one run while it is in flight.
type RunInfo struct {
	RunID     string
	StartedAt time.Time
	DAG       *dag.DAG
}

// PassRecord describes one pass execution.
type PassRecord struct {
	// Seq numbers executions within the run, starting at 0. Group members
	// get one record per iteration.
	Seq int

	Pass string
	Kind Kind

	// Group is the schedule index of the enclosing group, or -1 for a pass
	// scheduled on its own. Iteration counts group repetitions from 0.
	Group     int
	Iteration int

	Duration time.Duration

	// Changed reports whether a transformation pass returned a replacement
	// DAG. Always false for analyses.
	Changed bool

	// Err carries the failure text when the pass aborted the run.
	Err string
}

// Result is the outcome of one run. On failure, DAG holds the graph as of
// the last successfully completed pass; nothing from the failing pass is
// committed.
type Result struct {
	RunID      string
	State      State
	DAG        *dag.DAG
	Properties *property.Set
	Records    []PassRecord

	StartedAt  time.Time
	FinishedAt time.Time

	// FailedPass and Err are set when State is Failed.
	FailedPass string
	Err        error

	// CapReached lists schedule indices of groups that hit their iteration
	// cap without converging.
	CapReached []int
}

// Run executes the schedule against the DAG. The framework owns the DAG and
// the freshly created property set until Run returns; external mutation
// during a run is not permitted.
//
// Run returns the result and, when the run failed, the aborting error. The
// result is non-nil whenever a run actually started; only the
// ErrRunInProgress rejection returns a nil result.
func (pm *PassManager) Run(d *dag.DAG) (*Result, error) {
	if pm.state == Running {
		return nil, errors.Wrap(ErrRunInProgress, "pass manager")
	}
	pm.state = Running

	res := &Result{
		RunID:      uuid.NewString(),
		State:      Running,
		DAG:        d,
		Properties: property.NewSet(),
		StartedAt:  pm.now(),
	}
	info := &RunInfo{RunID: res.RunID, StartedAt: res.StartedAt, DAG: d}
	for _, h := range pm.onRunStart {
		h(info)
	}
	pm.log.Printw("run started", "run", res.RunID, "passes", len(pm.Passes()))

	r := &run{pm: pm, res: res, cur: d}
	err := r.execute()

	res.FinishedAt = pm.now()
	res.DAG = r.cur
	if err != nil {
		res.State = Failed
		res.Err = err
		pm.log.Printw("run failed", "run", res.RunID, "pass", res.FailedPass, "err", err)
	} else {
		res.State = Completed
		pm.log.Printw("run completed", "run", res.RunID,
			"executions", len(res.Records), "elapsed", res.FinishedAt.Sub(res.StartedAt))
	}
	pm.state = res.State

	for _, h := range pm.onRunComplete {
		h(res)
	}
	return res, err
}

// run carries the mutable state of one execution.
type run struct {
	pm  *PassManager
	res *Result
	cur *dag.DAG
	seq int
}

func (r *run) execute() error {
	for idx, it := range r.pm.items {
		if it.group == nil {
			if err := r.executePass(it.pass, -1, 0); err != nil {
				return err
			}
			continue
		}
		if err := r.executeGroup(idx, it.group); err != nil {
			return err
		}
	}
	return nil
}

// executeGroup repeats the block until a full quiet iteration or the cap.
func (r *run) executeGroup(idx int, g *group) error {
	for iter := 0; iter < g.maxIterations; iter++ {
		changed := false
		for _, p := range g.passes {
			rec, err := r.runOne(p, idx, iter)
			if err != nil {
				return err
			}
			changed = changed || rec.Changed
		}
		if !changed {
			return nil
		}
	}

	// Cap reached without convergence: a logged condition, not an error.
	r.res.CapReached = append(r.res.CapReached, idx)
	r.pm.log.Printw("fixed point not reached", "run", r.res.RunID,
		"group", idx, "iterations", g.maxIterations)
	return nil
}

func (r *run) executePass(p Pass, groupIdx, iter int) error {
	_, err := r.runOne(p, groupIdx, iter)
	return err
}

// runOne executes a single pass, recording the outcome and applying
// property invalidation. A returned error has already been attributed to the
// pass in the result.
func (r *run) runOne(p Pass, groupIdx, iter int) (PassRecord, error) {
	rec := PassRecord{
		Seq:       r.seq,
		Pass:      p.Name(),
		Kind:      p.Kind(),
		Group:     groupIdx,
		Iteration: iter,
	}
	r.seq++

	decl := p.Declarations()
	props := r.res.Properties

	fail := func(err error) (PassRecord, error) {
		rec.Err = err.Error()
		r.record(rec)
		r.res.FailedPass = p.Name()
		return rec, err
	}

	for _, key := range decl.Requires {
		if !props.Has(key) {
			return fail(fmt.Errorf("pass %q requires %q: %w", p.Name(), key, ErrMissingProperty))
		}
	}

	props.ResetWrites()
	start := r.pm.now()

	out, err := r.invoke(p, props)
	rec.Duration = r.pm.now().Sub(start)
	if err != nil {
		return fail(fmt.Errorf("pass %q: %w: %w", p.Name(), ErrPassExecution, err))
	}

	if p.Kind() == Transformation && out != nil {
		r.cur = out
		rec.Changed = true
	}

	// Drop invalidated properties the pass did not itself refresh or
	// declare preserved.
	preserved := make(map[string]bool, len(decl.Preserves))
	for _, key := range decl.Preserves {
		preserved[key] = true
	}
	for _, key := range decl.Invalidates {
		if !props.Written(key) && !preserved[key] {
			props.Delete(key)
		}
	}

	r.pm.log.Printw("pass completed", "run", r.res.RunID, "pass", p.Name(),
		"kind", p.Kind(), "changed", rec.Changed, "elapsed", rec.Duration)
	r.record(rec)
	return rec, nil
}

// invoke runs the pass with the protection its kind requires. A
// transformation pass works on a private replay of the current DAG, so a
// failing pass cannot leave a half-rewritten graph behind: the current DAG
// is always the state as of the last completed pass. Analyses read the live
// graph and their returned DAG, if any, is discarded.
func (r *run) invoke(p Pass, props *property.Set) (*dag.DAG, error) {
	switch p.Kind() {
	case Transformation:
		work, err := r.cur.Replay()
		if err != nil {
			return nil, errors.Wrap(err, "checkpoint")
		}
		return p.Run(work, props)
	default:
		_, err := p.Run(r.cur, props)
		return nil, err
	}
}

func (r *run) record(rec PassRecord) {
	r.res.Records = append(r.res.Records, rec)
	info := &RunInfo{RunID: r.res.RunID, StartedAt: r.res.StartedAt, DAG: r.cur}
	for _, h := range r.pm.onPassComplete {
		h(info, rec)
	}
}
