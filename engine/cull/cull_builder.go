package cull

import (
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// CullerOption is a functional option for configuring a Culler.
// Use the With* functions to create options that are applied directly to the
// culler instance.
type CullerOption func(*culler)

// WithWorkers enables parallel culling on a dynamic worker pool with the
// given worker count. Values <= 0 leave the culler serial.
//
// Parameters:
//   - workers: number of pool workers
//
// Returns:
//   - CullerOption: option function to apply
func WithWorkers(workers int) CullerOption {
	return func(c *culler) {
		if workers <= 0 {
			return
		}
		// Queue size of 64 covers the batch counts produced by scenes of a
		// few thousand objects at the default batch size.
		c.pool = worker.NewDynamicWorkerPool(workers, 64, 1*time.Second)
	}
}

// WithWorkerPool supplies an existing worker pool, letting the culler share
// goroutines with other per-frame stages.
//
// Parameters:
//   - pool: the pool to submit batches to
//
// Returns:
//   - CullerOption: option function to apply
func WithWorkerPool(pool worker.DynamicWorkerPool) CullerOption {
	return func(c *culler) {
		c.pool = pool
	}
}

// WithBatchSize sets how many objects each pool task tests. Values <= 0 fall
// back to the default of 128.
//
// Parameters:
//   - size: objects per batch
//
// Returns:
//   - CullerOption: option function to apply
func WithBatchSize(size int) CullerOption {
	return func(c *culler) {
		if size <= 0 {
			size = 128
		}
		c.batchSize = size
	}
}
