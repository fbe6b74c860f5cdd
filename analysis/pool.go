package analysis

import "golang.org/x/sync/errgroup"

// Pool runs a batch of independent tasks and blocks until all of them have
// returned. Implementations decide how the tasks are scheduled; the
// chi-squared evaluator only relies on the blocking contract.
//
// The first task error aborts the batch and is propagated to the caller;
// there is no partial-result recovery.
type Pool interface {
	Map(tasks []func() error) error
}

// WorkerPool is a goroutine-backed Pool. A positive limit bounds the number
// of tasks running at once; zero or negative means unbounded.
type WorkerPool struct {
	limit int
}

var _ Pool = (*WorkerPool)(nil)

// NewWorkerPool creates a WorkerPool running at most limit tasks
// concurrently.
func NewWorkerPool(limit int) *WorkerPool {
	return &WorkerPool{limit: limit}
}

// Map runs every task on its own goroutine and waits for all of them.
func (p *WorkerPool) Map(tasks []func() error) error {
	var g errgroup.Group
	if p.limit > 0 {
		g.SetLimit(p.limit)
	}
	for _, task := range tasks {
		g.Go(task)
	}

	return g.Wait()
}

// runSequential is the pool-less fallback: ordinary mapping over the tasks.
func runSequential(tasks []func() error) error {
	for _, task := range tasks {
		if err := task(); err != nil {
			return err
		}
	}

	return nil
}
