package eventlog

import (
	"bytes"
	"testing"
	"time"

	"github.com/qdag-xyz/go-qdag/gatelib"
	"github.com/qdag-xyz/go-qdag/passes"
	"github.com/qdag-xyz/go-qdag/passmanager"
)

func sampleLog() *Log {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewLog()
	l.AddEvent(Event{
		RunID: "run-a", Seq: 0, Pass: "depth", Kind: "analysis",
		Group: -1, Timestamp: base, Duration: 120 * time.Microsecond,
	})
	l.AddEvent(Event{
		RunID: "run-a", Seq: 1, Pass: "decompose", Kind: "transformation",
		Group: 0, Iteration: 2, Timestamp: base.Add(time.Millisecond),
		Duration: 240 * time.Microsecond, Changed: true,
	})
	l.AddEvent(Event{
		RunID: "run-b", Seq: 0, Pass: "depth", Kind: "analysis",
		Group: -1, Timestamp: base.Add(time.Second),
		Duration: 80 * time.Microsecond, Error: "boom",
	})
	return l
}

func equalLogs(t *testing.T, want, got *Log) {
	t.Helper()
	if got.Len() != want.Len() {
		t.Fatalf("expected %d events, got %d", want.Len(), got.Len())
	}
	for _, id := range want.RunIDs() {
		gt, exists := got.Runs[id]
		if !exists {
			t.Fatalf("run %s missing", id)
		}
		for i, ev := range want.Runs[id].Events {
			g := gt.Events[i]
			if !g.Timestamp.Equal(ev.Timestamp) {
				t.Errorf("run %s event %d: timestamp %v != %v", id, i, g.Timestamp, ev.Timestamp)
			}
			g.Timestamp = ev.Timestamp
			if g != ev {
				t.Errorf("run %s event %d: %+v != %+v", id, i, g, ev)
			}
		}
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	want := sampleLog()

	var buf bytes.Buffer
	if err := want.WriteJSONL(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ParseJSONLReader(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	equalLogs(t, want, got)
}

func TestCSVRoundTrip(t *testing.T) {
	want := sampleLog()

	var buf bytes.Buffer
	if err := want.WriteCSV(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ParseCSVReader(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	equalLogs(t, want, got)
}

func TestParseJSONLRejectsGarbage(t *testing.T) {
	if _, err := ParseJSONLReader(bytes.NewBufferString("{not json}\n")); err == nil {
		t.Error("invalid JSON accepted")
	}
	if _, err := ParseJSONLReader(bytes.NewBufferString(`{"seq":1}` + "\n")); err == nil {
		t.Error("event without run_id accepted")
	}
}

func TestPassDurations(t *testing.T) {
	l := sampleLog()
	totals := l.PassDurations()
	if totals["depth"] != 200*time.Microsecond {
		t.Errorf("depth total %v", totals["depth"])
	}
	if totals["decompose"] != 240*time.Microsecond {
		t.Errorf("decompose total %v", totals["decompose"])
	}
}

func TestRecorderCapturesRun(t *testing.T) {
	d, err := gatelib.NewCircuit().
		Qreg("q", 2).
		H("q", 0).
		CX("q", 0, "q", 1).
		Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	l := NewLog()
	pm := passmanager.New().
		Append(passes.NewDepth()).
		Append(passes.NewSize()).
		OnPassComplete(Recorder(l, time.Now))

	res, err := pm.Run(d)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	trace, exists := l.Runs[res.RunID]
	if !exists {
		t.Fatal("run trace missing")
	}
	if len(trace.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(trace.Events))
	}
	if trace.Events[0].Pass != "depth" || trace.Events[1].Pass != "size" {
		t.Errorf("unexpected passes %v, %v", trace.Events[0].Pass, trace.Events[1].Pass)
	}
}
