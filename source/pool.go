package source

import "github.com/panjf2000/ants/v2"

// newPool bounds the number of concurrently in-flight file reads during a
// scan. Adapted from the teacher's pkg/sync.PoolOfAnts adapter
// (_examples/Tangerg-lynx/pkg/sync/pool.go), trimmed to this package's one
// use: a fixed-size goroutine pool handed individual buildResource calls.
func newPool(concurrency int) (*ants.Pool, error) {
	return ants.NewPool(concurrency)
}
