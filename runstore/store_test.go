package runstore

import (
	"path/filepath"
	"testing"

	"github.com/qdag-xyz/go-qdag/gatelib"
	"github.com/qdag-xyz/go-qdag/passes"
	"github.com/qdag-xyz/go-qdag/passmanager"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func runPipeline(t *testing.T) *passmanager.Result {
	t.Helper()
	d, err := gatelib.NewCircuit().
		Qreg("q", 2).
		H("q", 0).
		ISwap("q", 0, "q", 1).
		Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	pm := passmanager.New().
		Append(passes.NewDecompose("iswap", gatelib.Source)).
		Append(passes.NewDepth()).
		Append(passes.NewSize())

	res, err := pm.Run(d)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func TestSaveAndGetRun(t *testing.T) {
	s := testStore(t)
	res := runPipeline(t)

	if err := s.SaveResult(res); err != nil {
		t.Fatalf("save: %v", err)
	}

	run, err := s.GetRun(res.RunID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if run.State != "completed" {
		t.Errorf("expected completed, got %s", run.State)
	}
	if run.Passes != 3 {
		t.Errorf("expected 3 pass executions, got %d", run.Passes)
	}
	if run.Size != 7 {
		t.Errorf("expected final size 7, got %d", run.Size)
	}
	if run.Width != 2 {
		t.Errorf("expected width 2, got %d", run.Width)
	}
}

func TestPassExecutions(t *testing.T) {
	s := testStore(t)
	res := runPipeline(t)
	if err := s.SaveResult(res); err != nil {
		t.Fatalf("save: %v", err)
	}

	rows, err := s.PassExecutions(res.RunID)
	if err != nil {
		t.Fatalf("pass executions: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Pass != "decompose" || !rows[0].Changed {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if rows[1].Pass != "depth" || rows[1].Changed {
		t.Errorf("unexpected second row %+v", rows[1])
	}
	for i, row := range rows {
		if row.Seq != i {
			t.Errorf("row %d has seq %d", i, row.Seq)
		}
	}
}

func TestListRunsOrderAndLimit(t *testing.T) {
	s := testStore(t)

	for i := 0; i < 3; i++ {
		if err := s.SaveResult(runPipeline(t)); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	runs, err := s.ListRuns(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}

	limited, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 runs, got %d", len(limited))
	}

	if _, err := s.GetRun("no-such-run"); err == nil {
		t.Error("missing run did not error")
	}
}

func TestPassStats(t *testing.T) {
	s := testStore(t)
	for i := 0; i < 2; i++ {
		if err := s.SaveResult(runPipeline(t)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	stats, err := s.PassStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats["decompose"].Executions != 2 || stats["decompose"].Changes != 2 {
		t.Errorf("decompose stats %+v", stats["decompose"])
	}
	if stats["depth"].Executions != 2 || stats["depth"].Changes != 0 {
		t.Errorf("depth stats %+v", stats["depth"])
	}
}
