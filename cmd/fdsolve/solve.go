package main

import (
	"context"

	"github.com/spf13/cobra"
)

func solveCmd() *cobra.Command {
	var f commonFlags
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find one satisfying assignment for a built-in problem",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, _, err := buildModel(f)
			if err != nil {
				return err
			}
			sol, err := m.Solve(context.Background())
			if err != nil {
				return err
			}
			printSolution(sol)
			return nil
		},
	}
	addCommonFlags(cmd.Flags(), &f)
	return cmd
}
