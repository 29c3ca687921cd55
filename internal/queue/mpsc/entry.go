// Multi-producer single-consumer lock-free ring buffer queue with power-of-two capacity
package mpsc

import (
	"context"
	"fmt"
	"midistream/internal/atomics"
	"midistream/internal/global"
	"runtime"
	"time"
)

// Creates a new queue
func New[T any](namespace []string, initialCapacity uint64, minCapacity, maxCapacity int) (new *Queue[T], err error) {
	qInst, err := newQueueInst[T](namespace, initialCapacity)
	if err != nil {
		return
	}

	// Setup container where both pointers are to the same queue (initially)
	new = &Queue[T]{}
	new.ActiveRead.Store(qInst)
	new.ActiveWrite.Store(qInst)
	new.minimumSize = minCapacity
	new.maximumSize = maxCapacity

	return
}

// Allocates new capacity queue (drain handled by the consumer)
func (container *Queue[T]) mutateSize(newCapacity uint64) (err error) {
	// Safety, don't do anything if a migration is already in progress
	if container.ActiveRead.Load() != container.ActiveWrite.Load() {
		return
	}

	// Grab old namespace
	ns := container.ActiveWrite.Load().Namespace

	// Create the new size (empty) queue
	qInst, err := newQueueInst[T](ns, newCapacity)
	if err != nil {
		return
	}

	// Set old queue to draining (triggers producer to reload pointer)
	oldInst := container.ActiveWrite.Load()
	oldInst.draining.Store(true)

	// Assign ActiveWrite to new size queue instance.
	// The consumer flips ActiveRead once the old instance is empty.
	container.ActiveWrite.Store(qInst)

	// Wake the consumer in case it is parked on the now-draining instance
	select {
	case oldInst.notEmpty <- struct{}{}:
	default:
	}
	return
}

// Creates new queue instance (no container A/B - Write/Read)
func newQueueInst[T any](namespace []string, capacity uint64) (new *QueueInst[T], err error) {
	if (capacity & (capacity - 1)) != 0 {
		err = fmt.Errorf("capacity must be a power of two")
		return
	}
	if capacity < 2 {
		err = fmt.Errorf("capacity must be greater than or equal to 2")
		return
	}

	buf := make([]cell[T], capacity)
	for i := uint64(0); i < capacity; i++ {
		buf[i].seq.Store(i)
	}

	new = &QueueInst[T]{
		Namespace: append(namespace, global.NSQueue),
		Size:      int(capacity),
		mask:      capacity - 1,
		buf:       buf,
		notEmpty:  make(chan struct{}, 1),
		Metrics:   &MetricStorage{},
	}
	return
}

// Poll based wrapper around Push function to block until succeed (includes built-in poll interval)
func (container *Queue[T]) PushBlocking(ctx context.Context, value T, size int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if container.Push(value) { // try once
				container.ActiveWrite.Load().Metrics.Bytes.Add(uint64(size))
				return
			}
			time.Sleep(10 * time.Millisecond) // or backoff
		}
	}
}

// Attempts to write an element (non success = queue full)
func (container *Queue[T]) Push(value T) (success bool) {
	var queue *QueueInst[T]

	// Retry to get valid pointer
	for {
		queue = container.ActiveWrite.Load()
		if !queue.draining.Load() {
			break
		}
		// Loaded queue pointer is not valid to write to
		runtime.Gosched() // yield
	}

	queue.Metrics.PushAttempts.Add(1)

	var pos, seq uint64
	var cell *cell[T]

	for {
		pos = queue.tail.Load()
		cell = &queue.buf[pos&queue.mask]
		seq = cell.seq.Load()

		if seq == pos {
			if queue.tail.CompareAndSwap(pos, pos+1) {
				queue.Metrics.PushSuccess.Add(1)
				break
			}
			queue.Metrics.PushCASRetries.Add(1)
		} else if seq < pos {
			queue.Metrics.PushFull.Add(1)
			success = false // queue full
			return
		} else {
			queue.Metrics.PushSeqAhead.Add(1)
			runtime.Gosched() // yield then retry
		}
	}

	cell.data = value
	cell.seq.Store(pos + 1)
	queue.Metrics.Depth.Add(1)

	// notify blocked consumer, non-blocking
	select {
	case queue.notEmpty <- struct{}{}:
	default:
	}

	success = true
	return
}

// Reads the next element in arrival order. Blocks until an element is
// available or the context is canceled. Must only be called from the
// single consumer goroutine.
func (container *Queue[T]) Pop(ctx context.Context) (out T, success bool) {
	for {
		queue := container.ActiveRead.Load()

		pos := queue.head
		cell := &queue.buf[pos&queue.mask]
		seq := cell.seq.Load()

		if seq == pos+1 {
			queue.head++
			out = cell.data
			cell.seq.Store(pos + queue.mask + 1)

			queue.Metrics.PopSuccess.Add(1)
			atomics.Subtract(&queue.Metrics.Depth, 1, 4) // max retries set at 4
			success = true
			return
		}

		// No ready cell. A claimed but unwritten slot means a producer is
		// mid-push, yield and retry rather than sleeping on the signal.
		if queue.head != queue.tail.Load() {
			runtime.Gosched()
			continue
		}

		// Instance empty: finish migration by flipping read to write pointer
		if queue.draining.Load() {
			container.ActiveRead.Store(container.ActiveWrite.Load())
			continue
		}

		// queue empty: wait for signal or context cancel
		queue.Metrics.PopEmpty.Add(1)
		select {
		case <-ctx.Done():
			success = false
			return
		case <-queue.notEmpty:
			queue.Metrics.PopWaitSignals.Add(1)
			continue // retry after being signaled
		}
	}
}
