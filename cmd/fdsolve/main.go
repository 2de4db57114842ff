// Command fdsolve is a thin demonstration front-end over pkg/fdsolve: it
// selects one of a small built-in catalog of constraint problems, builds
// it with a Model, and drives one of the four solve modes. It is not a
// declarative model-description language or a FlatZinc front-end — both
// are out of scope (see SPEC_FULL.md §8) — only a harness for exercising
// the library from a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fdsolve",
		Short: "Finite-domain constraint and optimization engine demo CLI",
		Long: `fdsolve drives the pkg/fdsolve constraint-satisfaction and
constrained-optimization engine against a small built-in catalog of demo
problems (queens, send-more-money, knapsack).`,
	}
	root.AddCommand(solveCmd())
	root.AddCommand(enumerateCmd())
	root.AddCommand(optimizeCmd())
	root.AddCommand(benchCmd())
	return root
}
