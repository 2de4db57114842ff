package fdsolve

import (
	"time"

	"go.uber.org/zap"
)

// Config holds every tunable named in spec.md §6's configuration table.
// Zero-value fields are filled with defaults by New; callers normally only
// touch a few of them via the Option setters below, matching the teacher's
// functional-options style from optimize.go's OptimizeOption.
type Config struct {
	Timeout           time.Duration
	MemoryLimitMB     int64
	FloatPrecision    float64
	LPCadence         int
	LPIterCap         int
	VariableHeuristic VariableHeuristic
	ValueHeuristic    ValueHeuristic
	Logger            *zap.Logger
}

func defaultConfig() Config {
	return Config{
		FloatPrecision:    1e-6,
		LPCadence:         8,
		LPIterCap:         500,
		VariableHeuristic: VarFirstFail,
		ValueHeuristic:    ValueMin,
		Logger:            zap.NewNop(),
	}
}

// Option configures a Model at construction time.
type Option func(*Config)

// WithTimeout bounds wall-clock solve time; exceeding it surfaces
// ErrTimeout with whatever incumbent (for optimization calls) was found.
func WithTimeout(d time.Duration) Option { return func(c *Config) { c.Timeout = d } }

// WithMemoryLimit bounds the estimated peak memory residency in megabytes;
// exceeding it surfaces ErrOutOfMemory.
func WithMemoryLimit(mb int64) Option { return func(c *Config) { c.MemoryLimitMB = mb } }

// WithFloatPrecision sets the epsilon below which two floats are treated
// as equal throughout float domain narrowing.
func WithFloatPrecision(eps float64) Option { return func(c *Config) { c.FloatPrecision = eps } }

// WithLPCadence sets how many search nodes elapse between LP-relaxation
// objective-bound checks during optimization; 0 disables the LP subsolver
// entirely, including the root bound-tightening pass.
func WithLPCadence(n int) Option { return func(c *Config) { c.LPCadence = n } }

// WithLPIterCap bounds simplex pivot iterations per LP solve; hitting the
// cap degrades to "no new bound" rather than failing the solve.
func WithLPIterCap(n int) Option { return func(c *Config) { c.LPIterCap = n } }

// WithVariableHeuristic overrides the default branching-variable choice.
func WithVariableHeuristic(h VariableHeuristic) Option {
	return func(c *Config) { c.VariableHeuristic = h }
}

// WithValueHeuristic overrides the default branching-value order.
func WithValueHeuristic(h ValueHeuristic) Option {
	return func(c *Config) { c.ValueHeuristic = h }
}

// WithLogger attaches a structured logger; the default is a no-op logger
// so Model never writes to stderr unless the caller opts in.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}
