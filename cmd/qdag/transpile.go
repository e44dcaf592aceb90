package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/qdag-xyz/go-qdag/dag"
	"github.com/qdag-xyz/go-qdag/eventlog"
	"github.com/qdag-xyz/go-qdag/gatelib"
	"github.com/qdag-xyz/go-qdag/passes"
	"github.com/qdag-xyz/go-qdag/passmanager"
	"github.com/qdag-xyz/go-qdag/runstore"
)

func transpile(args []string) error {
	fs := flag.NewFlagSet("transpile", flag.ExitOnError)
	circuitName := fs.String("circuit", "bell", "Built-in circuit: bell, ghz, mixed")
	qubits := fs.Int("qubits", 3, "Qubit count for the ghz circuit")
	basis := fs.String("basis", "h,x,y,z,s,sdg,t,tdg,rz,cx,measure", "Comma-separated target basis for unrolling")
	decompose := fs.String("decompose", "", "Expand a single gate one level instead of unrolling")
	dbPath := fs.String("db", "", "Archive the run in this SQLite database")
	eventsPath := fs.String("events", "", "Write the pass-execution trace to this JSONL file")
	verbose := fs.Bool("verbose", false, "Print every pass execution")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: qdag transpile [options]

Run a pass pipeline over a built-in circuit and report the result.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Unroll a GHZ circuit into the default basis
  qdag transpile --circuit ghz --qubits 5

  # Expand only iswap gates, one level
  qdag transpile --circuit mixed --decompose iswap

  # Archive the run and keep a trace
  qdag transpile --circuit bell --db runs.db --events trace.jsonl
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := buildCircuit(*circuitName, *qubits)
	if err != nil {
		return err
	}

	beforeDepth, err := d.Depth()
	if err != nil {
		return err
	}
	fmt.Printf("=== Input: %s ===\n", *circuitName)
	printStats(d, beforeDepth)

	pm := passmanager.New()
	if *decompose != "" {
		pm.Append(passes.NewDecompose(*decompose, gatelib.Source))
	} else {
		pm.Append(passes.NewUnroll(splitBasis(*basis), gatelib.Source))
	}
	pm.Append(passes.NewDepth()).
		Append(passes.NewSize()).
		Append(passes.NewWidth()).
		Append(passes.NewCountOps()).
		Append(passes.NewNumTensorFactors())

	if *verbose {
		pm.OnPassComplete(func(info *passmanager.RunInfo, rec passmanager.PassRecord) {
			fmt.Printf("  [%d] %-20s %-14s changed=%-5v %v\n",
				rec.Seq, rec.Pass, rec.Kind, rec.Changed, rec.Duration)
		})
	}

	log := eventlog.NewLog()
	if *eventsPath != "" {
		pm.OnPassComplete(eventlog.Recorder(log, time.Now))
	}

	res, err := pm.Run(d)
	if err != nil {
		return fmt.Errorf("transpile: %w", err)
	}

	fmt.Printf("\n=== Output (run %s) ===\n", res.RunID)
	afterDepth, err := res.DAG.Depth()
	if err != nil {
		return err
	}
	printStats(res.DAG, afterDepth)

	fmt.Printf("\nExecutions: %d in %v\n", len(res.Records), res.FinishedAt.Sub(res.StartedAt))
	printListing(res.DAG)

	if *eventsPath != "" {
		if err := log.SaveJSONL(*eventsPath); err != nil {
			return fmt.Errorf("save trace: %w", err)
		}
		fmt.Printf("\nTrace written to %s\n", *eventsPath)
	}

	if *dbPath != "" {
		store, err := runstore.New(*dbPath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer store.Close()
		if err := store.SaveResult(res); err != nil {
			return fmt.Errorf("archive run: %w", err)
		}
		fmt.Printf("Run archived in %s\n", *dbPath)
	}

	return nil
}

func buildCircuit(name string, qubits int) (*dag.DAG, error) {
	switch name {
	case "bell":
		return gatelib.NewCircuit().
			Qreg("q", 2).Creg("c", 2).
			H("q", 0).
			CX("q", 0, "q", 1).
			Measure("q", 0, "c", 0).
			Measure("q", 1, "c", 1).
			Done()
	case "ghz":
		if qubits < 2 {
			return nil, fmt.Errorf("ghz needs at least 2 qubits, got %d", qubits)
		}
		b := gatelib.NewCircuit().Qreg("q", qubits).Creg("c", qubits).H("q", 0)
		for i := 1; i < qubits; i++ {
			b.CX("q", 0, "q", i)
		}
		for i := 0; i < qubits; i++ {
			b.Measure("q", i, "c", i)
		}
		return b.Done()
	case "mixed":
		return gatelib.NewCircuit().
			Qreg("q", 3).
			H("q", 0).
			ISwap("q", 0, "q", 1).
			CZ("q", 1, "q", 2).
			Swap("q", 0, "q", 2).
			T("q", 1).
			Done()
	default:
		return nil, fmt.Errorf("unknown circuit %q (want bell, ghz or mixed)", name)
	}
}

func splitBasis(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

func printStats(d *dag.DAG, depth int) {
	fmt.Printf("  depth=%d size=%d width=%d tensor_factors=%d\n",
		depth, d.Size(), d.Width(), d.NumTensorFactors())

	counts := d.CountOps()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-10s x%d\n", name, counts[name])
	}
}

func printListing(d *dag.DAG) {
	nodes, err := d.TopologicalNodes()
	if err != nil {
		return
	}
	fmt.Println("\nProgram order:")
	for _, n := range nodes {
		fmt.Printf("  %s\n", n)
	}
}
