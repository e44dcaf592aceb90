package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/qdag-xyz/go-qdag/gatelib"
	"github.com/qdag-xyz/go-qdag/monitoring"
	"github.com/qdag-xyz/go-qdag/passes"
	"github.com/qdag-xyz/go-qdag/passmanager"
)

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "HTTP listen address")
	interval := fs.Duration("interval", 5*time.Second, "Interval between demo pipeline runs (0 disables)")
	circuitName := fs.String("circuit", "mixed", "Built-in circuit for demo runs: bell, ghz, mixed")
	qubits := fs.Int("qubits", 3, "Qubit count for the ghz circuit")
	slow := fs.Duration("slow", 100*time.Millisecond, "Slow-pass alert threshold")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: qdag serve [options]

Expose run monitoring over HTTP. Endpoints:

  /ws      WebSocket stream of run events and alerts
  /runs    Tracked runs as JSON
  /stats   Aggregate counters as JSON
  /alerts  Raised alerts as JSON

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	monitor := monitoring.NewMonitor(monitoring.Config{
		SlowPassThreshold: *slow,
		KeepFinished:      100,
	})
	server := monitoring.NewServer(monitor)

	pm := passmanager.New().
		Append(passes.NewUnroll([]string{"h", "x", "y", "z", "s", "sdg", "t", "tdg", "rz", "cx", "measure"}, gatelib.Source)).
		Append(passes.NewDepth()).
		Append(passes.NewSize()).
		Append(passes.NewCountOps())
	monitor.Attach(pm)

	if *interval > 0 {
		go func() {
			ticker := time.NewTicker(*interval)
			defer ticker.Stop()
			for range ticker.C {
				d, err := buildCircuit(*circuitName, *qubits)
				if err != nil {
					fmt.Fprintf(os.Stderr, "demo circuit: %v\n", err)
					return
				}
				if _, err := pm.Run(d); err != nil {
					fmt.Fprintf(os.Stderr, "demo run: %v\n", err)
				}
			}
		}()
	}

	fmt.Printf("Monitoring on %s (ws: /ws)\n", *addr)
	return http.ListenAndServe(*addr, server.Handler())
}
