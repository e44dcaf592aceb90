package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSONL writes every event as one JSON object per line, runs in sorted
// ID order and events in sequence order.
func (l *Log) WriteJSONL(w io.Writer) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, id := range l.RunIDs() {
		for _, ev := range l.Runs[id].Events {
			if err := enc.Encode(ev); err != nil {
				return fmt.Errorf("encoding event %s/%d: %w", ev.RunID, ev.Seq, err)
			}
		}
	}
	return bw.Flush()
}

// SaveJSONL writes the log to a JSONL file.
func (l *Log) SaveJSONL(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()
	return l.WriteJSONL(f)
}

// ParseJSONL reads a pass trace log from a JSONL file.
func ParseJSONL(filename string) (*Log, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return ParseJSONLReader(f)
}

// ParseJSONLReader reads a pass trace log, one JSON event per line. Empty
// lines are skipped.
func ParseJSONLReader(r io.Reader) (*Log, error) {
	log := NewLog()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		if ev.RunID == "" {
			return nil, fmt.Errorf("line %d: missing run_id", lineNum)
		}
		log.AddEvent(ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return log, nil
}
