package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{
	"run_id", "seq", "pass", "kind", "group", "iteration",
	"timestamp", "duration_ns", "changed", "error",
}

// WriteCSV writes the log as CSV with a header row.
func (l *Log) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, id := range l.RunIDs() {
		for _, ev := range l.Runs[id].Events {
			row := []string{
				ev.RunID,
				strconv.Itoa(ev.Seq),
				ev.Pass,
				ev.Kind,
				strconv.Itoa(ev.Group),
				strconv.Itoa(ev.Iteration),
				ev.Timestamp.Format(time.RFC3339Nano),
				strconv.FormatInt(int64(ev.Duration), 10),
				strconv.FormatBool(ev.Changed),
				ev.Error,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing event %s/%d: %w", ev.RunID, ev.Seq, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseCSV reads a pass trace log from a CSV file produced by WriteCSV.
func ParseCSV(filename string) (*Log, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return ParseCSVReader(f)
}

// ParseCSVReader reads a pass trace log in the WriteCSV column layout.
func ParseCSVReader(r io.Reader) (*Log, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return NewLog(), nil
	}

	log := NewLog()
	for i, row := range records[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(csvHeader), len(row))
		}
		ev, err := eventFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		log.AddEvent(ev)
	}
	return log, nil
}

func eventFromRow(row []string) (Event, error) {
	seq, err := strconv.Atoi(row[1])
	if err != nil {
		return Event{}, fmt.Errorf("seq: %w", err)
	}
	group, err := strconv.Atoi(row[4])
	if err != nil {
		return Event{}, fmt.Errorf("group: %w", err)
	}
	iter, err := strconv.Atoi(row[5])
	if err != nil {
		return Event{}, fmt.Errorf("iteration: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, row[6])
	if err != nil {
		return Event{}, fmt.Errorf("timestamp: %w", err)
	}
	dur, err := strconv.ParseInt(row[7], 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("duration: %w", err)
	}
	changed, err := strconv.ParseBool(row[8])
	if err != nil {
		return Event{}, fmt.Errorf("changed: %w", err)
	}

	return Event{
		RunID:     row[0],
		Seq:       seq,
		Pass:      row[2],
		Kind:      row[3],
		Group:     group,
		Iteration: iter,
		Timestamp: ts,
		Duration:  time.Duration(dur),
		Changed:   changed,
		Error:     row[9],
	}, nil
}
