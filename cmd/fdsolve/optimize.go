package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/fdsolve/pkg/fdsolve"
)

func optimizeCmd() *cobra.Command {
	var f commonFlags
	var maximize bool
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Minimize or maximize a built-in problem's objective",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, obj, hasObj, err := buildModel(f)
			if err != nil {
				return err
			}
			if !hasObj {
				return fmt.Errorf("problem %q has no objective to optimize; use solve/enumerate instead", f.problemName)
			}
			var sol *fdsolve.Solution
			if maximize {
				sol, err = m.Maximize(context.Background(), obj)
			} else {
				sol, err = m.Minimize(context.Background(), obj)
			}
			if err != nil {
				return err
			}
			printOptimizeResult(obj, sol)
			return nil
		},
	}
	addCommonFlags(cmd.Flags(), &f)
	cmd.Flags().BoolVar(&maximize, "maximize", true, "maximize the objective (false minimizes)")
	return cmd
}

func printOptimizeResult(obj fdsolve.VarID, sol *fdsolve.Solution) {
	if sol == nil {
		fmt.Println("no solution (unsatisfiable)")
		return
	}
	v, err := sol.IntAt(obj)
	if err != nil {
		fmt.Println("objective value: <non-integer objective>")
	} else {
		fmt.Printf("objective value: %d\n", v)
	}
	printSolution(sol)
}
