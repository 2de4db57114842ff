package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func enumerateCmd() *cobra.Command {
	var f commonFlags
	var limit int
	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "Enumerate satisfying assignments for a built-in problem",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, _, err := buildModel(f)
			if err != nil {
				return err
			}
			it := m.Enumerate(context.Background())
			defer it.Close()
			count := 0
			for {
				if limit > 0 && count >= limit {
					break
				}
				sol, ok := it.Next()
				if !ok {
					break
				}
				count++
				fmt.Printf("solution %d:\n", count)
				printSolution(sol)
			}
			if err := it.Err(); err != nil {
				return err
			}
			fmt.Printf("%d solution(s) found\n", count)
			return nil
		},
	}
	addCommonFlags(cmd.Flags(), &f)
	cmd.Flags().IntVar(&limit, "limit", 10, "stop after this many solutions (0 = unlimited)")
	return cmd
}
