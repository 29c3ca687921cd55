package mpsc

import "sync/atomic"

// Depth counter of the instance the consumer is draining.
// Usable with the atomics watchers to wait for an empty queue.
func (container *Queue[T]) DepthCounter() (depth *atomic.Uint64) {
	depth = &container.ActiveRead.Load().Metrics.Depth
	return
}

// Per-instance counters, all monotonically increasing except Depth/Bytes
type MetricStorage struct {
	PushAttempts   atomic.Uint64
	PushSuccess    atomic.Uint64
	PushFull       atomic.Uint64
	PushCASRetries atomic.Uint64
	PushSeqAhead   atomic.Uint64
	PopSuccess     atomic.Uint64
	PopEmpty       atomic.Uint64
	PopWaitSignals atomic.Uint64
	Depth          atomic.Uint64
	Bytes          atomic.Uint64
}
