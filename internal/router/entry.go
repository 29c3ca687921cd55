// Maintains attached input sources and dispatches decoded messages,
// tagged by source, to a registered sink in per-source arrival order
package router

import (
	"context"
	"fmt"
	"midistream/internal/atomics"
	"midistream/internal/global"
	"midistream/internal/logctx"
	"midistream/internal/midi/decoder"
	"midistream/internal/queue/mpsc"
	"runtime/debug"
	"time"
)

// Creates a new router. maxSources bounds concurrent bindings, zero or
// negative falls back to the default.
func New(namespace []string, maxSources int, sink Sink, minQueueSize, maxQueueSize int) (new *Instance, err error) {
	if sink == nil {
		err = fmt.Errorf("sink cannot be nil")
		return
	}
	if maxSources <= 0 {
		maxSources = global.DefaultMaxSources
	}
	if minQueueSize <= 0 {
		minQueueSize = global.DefaultMinQueueSize
	}
	if maxQueueSize < minQueueSize {
		maxQueueSize = minQueueSize
	}

	ns := append(namespace, global.NSRouter)
	outbox, err := mpsc.New[delivery](ns, uint64(minQueueSize), minQueueSize, maxQueueSize)
	if err != nil {
		err = fmt.Errorf("failed creating dispatch queue: %w", err)
		return
	}

	new = &Instance{
		Namespace:  ns,
		bindings:   make(map[int]*SourceBinding),
		maxSources: maxSources,
		sink:       sink,
		outbox:     outbox,
	}
	return
}

// Registers a new source and returns its stable id.
// Ids are recycled lowest-first, a recycled id always starts with fresh
// decoder state.
func (instance *Instance) Attach(displayName string) (sourceID int, err error) {
	instance.mu.Lock()
	defer instance.mu.Unlock()

	if len(instance.bindings) >= instance.maxSources {
		err = fmt.Errorf("%w: %d sources attached", ErrCapacityExceeded, len(instance.bindings))
		return
	}

	// Lowest free id
	for {
		if _, used := instance.bindings[sourceID]; !used {
			break
		}
		sourceID++
	}

	instance.bindings[sourceID] = &SourceBinding{
		ID:          sourceID,
		DisplayName: displayName,
		state:       decoder.NewState(),
	}
	instance.Metrics.AttachedSources.Add(1)
	return
}

// Removes a source binding and discards its decoder state.
// An in-flight decode for the source may still complete, but its results
// are dropped by the dispatcher instead of delivered.
func (instance *Instance) Detach(sourceID int) (err error) {
	instance.mu.Lock()
	defer instance.mu.Unlock()

	binding, ok := instance.bindings[sourceID]
	if !ok {
		err = fmt.Errorf("%w: %d", ErrUnknownSource, sourceID)
		return
	}

	binding.detached.Store(true)
	delete(instance.bindings, sourceID)
	instance.Metrics.AttachedSources.Store(uint64(len(instance.bindings)))
	return
}

// Number of currently attached sources
func (instance *Instance) SourceCount() (count int) {
	instance.mu.RLock()
	defer instance.mu.RUnlock()
	count = len(instance.bindings)
	return
}

// Decodes a raw byte buffer for one source and enqueues the resulting
// messages for dispatch. Buffers from different sources may be ingested
// concurrently, calls for the same source are serialized by the binding
// lock so decode order is preserved.
func (instance *Instance) Ingest(ctx context.Context, sourceID int, raw []byte) (err error) {
	instance.mu.RLock()
	binding, ok := instance.bindings[sourceID]
	instance.mu.RUnlock()
	if !ok {
		err = fmt.Errorf("%w: %d", ErrUnknownSource, sourceID)
		return
	}

	binding.mu.Lock()
	defer binding.mu.Unlock()

	if binding.detached.Load() {
		err = fmt.Errorf("%w: %d", ErrUnknownSource, sourceID)
		return
	}

	msgs, diags := binding.state.Decode(binding.ID, raw)

	// Malformed input is absorbed and logged, never surfaced as an error
	if len(diags) > 0 {
		diagCtx := logctx.AppendCtxTag(logctx.OverwriteCtxTag(ctx, instance.Namespace), global.NSDecoder)
		for _, diag := range diags {
			instance.Metrics.MalformedBytes.Add(1)
			logctx.LogEvent(diagCtx, global.VerbosityProgress, global.WarnLog,
				"Source %d (%s): %s\n", binding.ID, binding.DisplayName, diag.String())
		}
	}

	for index, msg := range msgs {
		if binding.detached.Load() {
			// Source detached mid-decode, abandon the remaining results
			instance.Metrics.DiscardedMessages.Add(uint64(len(msgs) - index))
			return
		}

		instance.Metrics.DecodedMessages.Add(1)
		instance.outbox.PushBlocking(ctx, delivery{msg: msg, binding: binding}, len(msg.Data)+1)
	}
	return
}

// Discards a trailing partial message on one source at end of stream.
// Used when an input reaches EOF and no further bytes can complete the
// message. Running status for the source is preserved.
func (instance *Instance) FlushSource(ctx context.Context, sourceID int) (err error) {
	instance.mu.RLock()
	binding, ok := instance.bindings[sourceID]
	instance.mu.RUnlock()
	if !ok {
		err = fmt.Errorf("%w: %d", ErrUnknownSource, sourceID)
		return
	}

	binding.mu.Lock()
	defer binding.mu.Unlock()

	diags := binding.state.Flush()
	if len(diags) > 0 {
		diagCtx := logctx.AppendCtxTag(logctx.OverwriteCtxTag(ctx, instance.Namespace), global.NSDecoder)
		for _, diag := range diags {
			instance.Metrics.MalformedBytes.Add(1)
			logctx.LogEvent(diagCtx, global.VerbosityProgress, global.WarnLog,
				"Source %d (%s): %s\n", binding.ID, binding.DisplayName, diag.String())
		}
	}
	return
}

// Blocks until the dispatch queue is empty and every popped message has
// been delivered or discarded. Gives up after the watcher timeout.
func (instance *Instance) WaitForDrain() (drained bool) {
	drained, _ = atomics.WaitUntilZero(instance.outbox.DepthCounter())
	if !drained {
		return
	}

	// The last popped message may still be inside the sink
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		settled := instance.Metrics.DeliveredMessages.Load() + instance.Metrics.DiscardedMessages.Load()
		if settled >= instance.Metrics.DecodedMessages.Load() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	drained = false
	return
}

// Dispatch loop. Pops decoded messages in queue order and delivers them
// to the sink. Single consumer, which preserves per-source ordering end
// to end. Blocks until the context is canceled.
func (instance *Instance) Run(ctx context.Context) {
	ctx = logctx.AppendCtxTag(logctx.OverwriteCtxTag(ctx, instance.Namespace), global.NSDispatch)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			// Record panics and continue dispatching
			defer func() {
				if fatalError := recover(); fatalError != nil {
					stack := debug.Stack()
					logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
						"panic in router dispatch thread: %v\n%s", fatalError, stack)
				}
			}()

			entry, ok := instance.outbox.Pop(ctx)
			if !ok {
				return
			}

			// Results for sources detached after enqueue are discarded
			if entry.binding.detached.Load() {
				instance.Metrics.DiscardedMessages.Add(1)
				return
			}

			instance.sink.Deliver(entry.msg)
			instance.Metrics.DeliveredMessages.Add(1)

			logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
				"Dispatched %s\n", entry.msg.String())
		}()
	}
}

// Periodic queue capacity adjustment hook
func (instance *Instance) ScaleQueue(ctx context.Context) {
	instance.outbox.ScaleCapacity(ctx)
}
