// Command ammsim drives a randomized trading and liquidity workload
// against an in-process AMM engine, checking quotes, payouts, and the
// engine invariants continuously. It is a development tool layered on the
// public keeper API; it exits nonzero on the first violation.
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "ammsim",
		Short:        "AMM engine workload simulator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the randomized workload",
		RunE:  runSim,
	}

	runCmd.Flags().String("base-denom", "upaw", "base asset denom")
	runCmd.Flags().StringSlice("pool", nil, "pool spec denom:base:token:shares:fee (repeatable)")
	runCmd.Flags().Int("pools", 4, "random pools to seed when no specs are given")
	runCmd.Flags().Int("workers", 8, "concurrent workload workers")
	runCmd.Flags().Duration("duration", 30*time.Second, "workload duration")
	runCmd.Flags().Float64("rate", 200, "operations per second across all workers")
	runCmd.Flags().Uint64("seed", 0, "random seed, 0 derives one from the clock")
	runCmd.Flags().Duration("sweep-interval", time.Second, "invariant sweep interval")
	runCmd.Flags().String("metrics-addr", "", "Prometheus listen address, empty disables")
	runCmd.Flags().Bool("quiet", false, "suppress engine logs")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
