package parallel

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWorkerPoolRunsSubmittedJobs(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Shutdown()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			time.Sleep(10 * time.Millisecond)
		}
		if err := pool.Submit(ctx, task); err != nil {
			t.Errorf("failed to submit task: %v", err)
		}
	}
	wg.Wait()
	pool.Shutdown() // safe to call twice; finalizes stats

	stats := pool.Stats()
	if stats.TasksSubmitted != 5 {
		t.Errorf("expected 5 tasks submitted, got %d", stats.TasksSubmitted)
	}
	if stats.TasksCompleted != 5 {
		t.Errorf("expected 5 tasks completed, got %d", stats.TasksCompleted)
	}
	if stats.TotalDuration <= 0 {
		t.Errorf("expected positive total duration, got %v", stats.TotalDuration)
	}
}

func TestWorkerPoolRecordsPanicsAsFailures(t *testing.T) {
	pool := NewWorkerPool(2)

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(1)
	if err := pool.Submit(ctx, func() {
		defer wg.Done()
		panic("boom")
	}); err != nil {
		t.Fatalf("failed to submit task: %v", err)
	}
	wg.Wait()
	pool.Shutdown()

	stats := pool.Stats()
	if stats.TasksFailed != 1 {
		t.Errorf("expected 1 failed task, got %d", stats.TasksFailed)
	}
}

func TestWorkerPoolSubmitAfterShutdownFails(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Shutdown()

	err := pool.Submit(context.Background(), func() {})
	if err != ErrPoolShutdown {
		t.Errorf("expected ErrPoolShutdown, got %v", err)
	}
}

func TestRunBatch(t *testing.T) {
	jobs := []ModelJob{
		{Name: "found", Run: func(ctx context.Context) (Outcome, error) {
			return Outcome{Found: true}, nil
		}},
		{Name: "unsat", Run: func(ctx context.Context) (Outcome, error) {
			return Outcome{Found: false}, nil
		}},
	}

	results, stats, err := RunBatch(context.Background(), jobs, 2)
	if err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "found" || !results[0].Outcome.Found {
		t.Errorf("expected job 0 to report found=true, got %+v", results[0])
	}
	if results[1].Name != "unsat" || results[1].Outcome.Found {
		t.Errorf("expected job 1 to report found=false, got %+v", results[1])
	}
	if stats.TasksCompleted != 2 {
		t.Errorf("expected 2 completed tasks in batch stats, got %d", stats.TasksCompleted)
	}
}

func BenchmarkWorkerPool(b *testing.B) {
	pool := NewWorkerPool(4)
	defer pool.Shutdown()

	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			pool.Submit(ctx, func() {
				time.Sleep(1 * time.Millisecond)
			})
		}
	})
}
