package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ModelJob is one independent model to solve in a batch: Name labels it in
// the results and Run performs the whole solve.
type ModelJob struct {
	Name string
	Run  func(ctx context.Context) (Outcome, error)
}

// Outcome is a batch job's solve result, reduced to what a benchmark report
// needs: whether a solution was found and how long it took. It deliberately
// doesn't carry a *fdsolve.Solution to keep this package independent of
// pkg/fdsolve's types; cmd/fdsolve's ModelJob closures do that translation.
type Outcome struct {
	Found    bool
	Elapsed  time.Duration
}

// BatchResult pairs a ModelJob's name with its Outcome or error.
type BatchResult struct {
	Name    string
	Outcome Outcome
	Err     error
}

// RunBatch solves every job concurrently over a WorkerPool sized to
// maxWorkers (0 = NumCPU), respecting spec.md §5's "independent models on
// independent threads" allowance: each job gets its own goroutine slot and
// touches no state shared with any other job's Model/Store. The returned
// ExecutionStats reports the batch's real submitted/completed/failed/
// cancelled counts and throughput, for cmd/fdsolve's bench subcommand to
// print alongside the per-job results.
func RunBatch(ctx context.Context, jobs []ModelJob, maxWorkers int) ([]BatchResult, ExecutionStats, error) {
	pool := NewWorkerPool(maxWorkers)

	results := make([]BatchResult, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		i, job := i, job
		wg.Add(1)
		task := func() {
			defer wg.Done()
			start := time.Now()
			out, err := job.Run(ctx)
			if err != nil {
				results[i] = BatchResult{Name: job.Name, Err: err}
				return
			}
			out.Elapsed = time.Since(start)
			results[i] = BatchResult{Name: job.Name, Outcome: out}
		}
		if err := pool.Submit(ctx, task); err != nil {
			wg.Done()
			pool.Shutdown()
			return nil, pool.Stats(), fmt.Errorf("parallel: submitting job %q: %w", job.Name, err)
		}
	}
	wg.Wait()
	pool.Shutdown()
	return results, pool.Stats(), nil
}
