// Package config loads a YAML configuration file for cmd/fdsolve, mapping
// it onto fdsolve.Option values. This is ambient plumbing for the CLI demo
// (a file a user can hand to `fdsolve solve --config config.yaml`), not the
// out-of-scope "declarative model/config loading front-end" spec.md's
// Non-goals exclude — it never builds a Model, only a Config.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gitrdm/fdsolve/pkg/fdsolve"
)

// File is the on-disk shape of a config YAML file, field names matching
// spec.md §6's configuration table.
type File struct {
	TimeoutMs         int64   `yaml:"timeout_ms"`
	MemoryLimitMB     int64   `yaml:"memory_limit_mb"`
	FloatPrecision    float64 `yaml:"float_precision"`
	LPCadence         int     `yaml:"lp_cadence"`
	LPIterCap         int     `yaml:"lp_iter_cap"`
	VariableHeuristic string  `yaml:"variable_heuristic"`
	ValueHeuristic    string  `yaml:"value_heuristic"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return f, nil
}

// Options converts a loaded File into fdsolve.Option values, one per
// non-zero field. Unset fields (the YAML zero value) are left to
// fdsolve's own defaults rather than overridden with a zero.
func (f File) Options() ([]fdsolve.Option, error) {
	var opts []fdsolve.Option
	if f.TimeoutMs > 0 {
		opts = append(opts, fdsolve.WithTimeout(time.Duration(f.TimeoutMs)*time.Millisecond))
	}
	if f.MemoryLimitMB > 0 {
		opts = append(opts, fdsolve.WithMemoryLimit(f.MemoryLimitMB))
	}
	if f.FloatPrecision > 0 {
		opts = append(opts, fdsolve.WithFloatPrecision(f.FloatPrecision))
	}
	if f.LPCadence > 0 {
		opts = append(opts, fdsolve.WithLPCadence(f.LPCadence))
	}
	if f.LPIterCap > 0 {
		opts = append(opts, fdsolve.WithLPIterCap(f.LPIterCap))
	}
	if f.VariableHeuristic != "" {
		h, err := parseVariableHeuristic(f.VariableHeuristic)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fdsolve.WithVariableHeuristic(h))
	}
	if f.ValueHeuristic != "" {
		h, err := parseValueHeuristic(f.ValueHeuristic)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fdsolve.WithValueHeuristic(h))
	}
	return opts, nil
}

func parseVariableHeuristic(s string) (fdsolve.VariableHeuristic, error) {
	switch s {
	case "first_fail":
		return fdsolve.VarFirstFail, nil
	case "input_order":
		return fdsolve.VarInputOrder, nil
	case "smallest_min":
		return fdsolve.VarSmallestMin, nil
	default:
		return 0, fmt.Errorf("config: unknown variable_heuristic %q", s)
	}
}

func parseValueHeuristic(s string) (fdsolve.ValueHeuristic, error) {
	switch s {
	case "min":
		return fdsolve.ValueMin, nil
	case "max":
		return fdsolve.ValueMax, nil
	case "split":
		return fdsolve.ValueSplit, nil
	default:
		return 0, fmt.Errorf("config: unknown value_heuristic %q", s)
	}
}
