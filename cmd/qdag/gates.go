package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/qdag-xyz/go-qdag/gatelib"
)

func gates(args []string) error {
	fs := flag.NewFlagSet("gates", flag.ExitOnError)
	expand := fs.Bool("expand", false, "Show each gate's decomposition")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: qdag gates [options]

List the gate catalog.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, name := range gatelib.Names() {
		op, ok := gatelib.Get(name)
		if !ok {
			continue
		}
		fmt.Printf("%-8s qubits=%d clbits=%d\n", op.Name, op.NumQubits, op.NumClbits)
		if !*expand {
			continue
		}
		if insts, ok := gatelib.Source(op); ok {
			for _, inst := range insts {
				line := "  = " + inst.Op.Name
				sep := " "
				for _, w := range inst.Qargs {
					line += sep + w.String()
					sep = ","
				}
				fmt.Println(line)
			}
		}
	}
	return nil
}
