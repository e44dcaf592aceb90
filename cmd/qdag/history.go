package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/qdag-xyz/go-qdag/runstore"
)

func history(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbPath := fs.String("db", "runs.db", "Run database to inspect")
	limit := fs.Int("limit", 20, "Maximum runs to list")
	runID := fs.String("run", "", "Show the pass executions of one run")
	stats := fs.Bool("stats", false, "Show aggregate per-pass statistics")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: qdag history [options]

Inspect archived transpile runs.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # List recent runs
  qdag history --db runs.db

  # Drill into one run
  qdag history --db runs.db --run 4f1c...

  # Which passes dominate?
  qdag history --db runs.db --stats
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := runstore.New(*dbPath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer store.Close()

	if *runID != "" {
		return showRun(store, *runID)
	}
	if *stats {
		return showPassStats(store)
	}
	return listRuns(store, *limit)
}

func listRuns(store *runstore.Store, limit int) error {
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No archived runs")
		return nil
	}

	fmt.Printf("%-36s  %-9s  %-19s  %6s  %6s  %6s  %6s\n",
		"RUN", "STATE", "STARTED", "PASSES", "DEPTH", "SIZE", "WIDTH")
	for _, r := range runs {
		fmt.Printf("%-36s  %-9s  %-19s  %6d  %6d  %6d  %6d\n",
			r.ID, r.State, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Passes, r.Depth, r.Size, r.Width)
		if r.FailedPass != "" {
			fmt.Printf("    failed in %s: %s\n", r.FailedPass, r.Error)
		}
	}
	return nil
}

func showRun(store *runstore.Store, id string) error {
	run, err := store.GetRun(id)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s\n", run.ID)
	fmt.Printf("  state:    %s\n", run.State)
	fmt.Printf("  started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  elapsed:  %v\n", run.FinishedAt.Sub(run.StartedAt))
	fmt.Printf("  output:   depth=%d size=%d width=%d\n", run.Depth, run.Size, run.Width)
	if run.FailedPass != "" {
		fmt.Printf("  failed in %s: %s\n", run.FailedPass, run.Error)
	}

	rows, err := store.PassExecutions(id)
	if err != nil {
		return err
	}
	fmt.Printf("\n%4s  %-20s  %-14s  %7s  %9s  %s\n",
		"SEQ", "PASS", "KIND", "CHANGED", "ITER", "DURATION")
	for _, row := range rows {
		iter := "-"
		if row.GroupIdx >= 0 {
			iter = fmt.Sprintf("%d/%d", row.GroupIdx, row.Iteration)
		}
		fmt.Printf("%4d  %-20s  %-14s  %7v  %9s  %v\n",
			row.Seq, row.Pass, row.Kind, row.Changed, iter, row.Duration)
		if row.Error != "" {
			fmt.Printf("      error: %s\n", row.Error)
		}
	}
	return nil
}

func showPassStats(store *runstore.Store) error {
	stats, err := store.PassStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No archived executions")
		return nil
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return stats[names[i]].TotalDuration > stats[names[j]].TotalDuration
	})

	fmt.Printf("%-20s  %10s  %8s  %s\n", "PASS", "EXECUTIONS", "CHANGES", "TOTAL TIME")
	for _, name := range names {
		st := stats[name]
		fmt.Printf("%-20s  %10d  %8d  %v\n", name, st.Executions, st.Changes, st.TotalDuration)
	}
	return nil
}
