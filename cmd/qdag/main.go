package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "transpile":
		if err := transpile(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "history":
		if err := history(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "gates":
		if err := gates(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := serve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("qdag version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`qdag - quantum circuit transpiler core

Usage:
  qdag <command> [options]

Commands:
  transpile  Run a pass pipeline over a circuit and report the result
  history    Inspect archived runs from a run database
  gates      List the gate catalog and its decompositions
  serve      Expose live run monitoring over HTTP and WebSocket
  help       Show this help message
  version    Show version information

Examples:
  # Unroll a GHZ circuit into the {h, cx} basis
  qdag transpile --circuit ghz --qubits 4 --basis h,cx

  # Archive runs and inspect them later
  qdag transpile --circuit bell --db runs.db
  qdag history --db runs.db

  # Watch runs over WebSocket
  qdag serve --addr :8080

For command-specific help, run:
  qdag <command> --help`)
}
