package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	fdconfig "github.com/gitrdm/fdsolve/internal/config"
	"github.com/gitrdm/fdsolve/pkg/fdsolve"
)

// commonFlags are the flags every subcommand accepts: which built-in
// problem to run, its size parameter, an optional YAML config file, a
// wall-clock timeout override, and verbose logging.
type commonFlags struct {
	problemName string
	size        int
	configPath  string
	timeout     time.Duration
	verbose     bool
}

func addCommonFlags(cmd flagAdder, f *commonFlags) {
	cmd.StringVar(&f.problemName, "problem", "queens", "built-in problem to run (queens, send-more-money, knapsack)")
	cmd.IntVar(&f.size, "size", 0, "problem size parameter (0 = problem default)")
	cmd.StringVar(&f.configPath, "config", "", "path to a YAML config file (see internal/config)")
	cmd.DurationVar(&f.timeout, "timeout", 0, "wall-clock solve timeout (0 = none)")
	cmd.BoolVar(&f.verbose, "verbose", false, "enable debug-level structured logging")
}

// flagAdder is the subset of *pflag.FlagSet (via *cobra.Command.Flags())
// addCommonFlags needs, kept narrow so shared.go doesn't import pflag
// directly.
type flagAdder interface {
	StringVar(p *string, name string, value string, usage string)
	IntVar(p *int, name string, value int, usage string)
	DurationVar(p *time.Duration, name string, value time.Duration, usage string)
	BoolVar(p *bool, name string, value bool, usage string)
}

// buildModel constructs a fresh Model and the named problem's decision
// variables/constraints, applying any config-file options followed by the
// flag overrides (flags win, since they were the more specific, most
// recently stated intent).
func buildModel(f commonFlags) (*fdsolve.Model, fdsolve.VarID, bool, error) {
	p, err := lookupProblem(f.problemName)
	if err != nil {
		return nil, 0, false, err
	}
	size := f.size
	if size == 0 {
		size = p.defaultSize
	}

	var opts []fdsolve.Option
	if f.configPath != "" {
		cf, err := fdconfig.Load(f.configPath)
		if err != nil {
			return nil, 0, false, err
		}
		fileOpts, err := cf.Options()
		if err != nil {
			return nil, 0, false, err
		}
		opts = append(opts, fileOpts...)
	}
	if f.timeout > 0 {
		opts = append(opts, fdsolve.WithTimeout(f.timeout))
	}
	if f.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, 0, false, fmt.Errorf("building logger: %w", err)
		}
		opts = append(opts, fdsolve.WithLogger(logger))
	}

	m := fdsolve.New(opts...)
	obj, hasObj, err := p.build(m, size)
	if err != nil {
		return nil, 0, false, fmt.Errorf("building problem %q: %w", p.name, err)
	}
	return m, obj, hasObj, nil
}

func printSolution(sol *fdsolve.Solution) {
	if sol == nil {
		fmt.Println("no solution (unsatisfiable)")
		return
	}
	st := sol.Stats()
	fmt.Printf("solution found (nodes=%d propagations=%d backtracks=%d solve_time_ms=%d)\n",
		st.Nodes, st.Propagations, st.Backtracks, st.SolveTimeMs)
}
