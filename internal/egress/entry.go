// Serializes outbound MIDI messages per endpoint, preserving submission
// order with exactly one in-flight transmission per destination
package egress

import (
	"context"
	"fmt"
	"io"
	"midistream/internal/global"
	"midistream/internal/logctx"
	"midistream/internal/midi"
)

// Creates a new egress serializer
func New(namespace []string, endpointQueueSize int) (new *Instance) {
	if endpointQueueSize <= 0 {
		endpointQueueSize = global.DefaultEndpointQueueSize
	}
	new = &Instance{
		Namespace: append(namespace, global.NSEgress),
		endpoints: make(map[string]*Endpoint),
		queueSize: endpointQueueSize,
	}
	return
}

// Registers a destination under a unique name and starts its drain
// goroutine. The writer is only ever touched from that goroutine.
func (instance *Instance) Register(ctx context.Context, name string, writer io.Writer) (err error) {
	if writer == nil {
		err = fmt.Errorf("writer cannot be nil")
		return
	}

	instance.mu.Lock()
	defer instance.mu.Unlock()

	if _, exists := instance.endpoints[name]; exists {
		err = fmt.Errorf("endpoint %q already registered", name)
		return
	}

	endpoint := &Endpoint{
		Name:    name,
		writer:  writer,
		inbox:   make(chan transmission, instance.queueSize),
		done:    make(chan struct{}),
		Metrics: &MetricStorage{},
	}
	instance.endpoints[name] = endpoint

	drainCtx := logctx.AppendCtxTag(logctx.OverwriteCtxTag(ctx, instance.Namespace), global.NSEndpoint)
	drainCtx = logctx.AppendCtxTag(drainCtx, name)
	go endpoint.drain(drainCtx)
	return
}

// Removes a destination. Queued transmissions are drained before the
// endpoint goroutine exits, new sends fail with ErrNoDestination.
func (instance *Instance) Unregister(name string) (err error) {
	instance.mu.Lock()
	endpoint, ok := instance.endpoints[name]
	if !ok {
		instance.mu.Unlock()
		err = fmt.Errorf("%w: %q", ErrNoDestination, name)
		return
	}
	delete(instance.endpoints, name)
	instance.mu.Unlock()

	endpoint.closing.Lock()
	endpoint.closed = true
	close(endpoint.inbox)
	endpoint.closing.Unlock()

	<-endpoint.done
	return
}

// Submits one message to the named endpoint and blocks until the write
// completes or the context is canceled. Concurrent senders to the same
// endpoint are queued and drained in submission order.
func (instance *Instance) Send(ctx context.Context, name string, msg midi.Message) (err error) {
	instance.mu.RLock()
	endpoint, ok := instance.endpoints[name]
	instance.mu.RUnlock()
	if !ok {
		err = fmt.Errorf("%w: %q", ErrNoDestination, name)
		return
	}

	request := transmission{
		payload: msg.Encode(),
		result:  make(chan error, 1),
	}

	endpoint.closing.RLock()
	if endpoint.closed {
		endpoint.closing.RUnlock()
		err = fmt.Errorf("%w: %q", ErrNoDestination, name)
		return
	}

	select {
	case endpoint.inbox <- request:
		endpoint.closing.RUnlock()
	case <-ctx.Done():
		endpoint.closing.RUnlock()
		err = ctx.Err()
		return
	}

	select {
	case err = <-request.result:
	case <-ctx.Done():
		// The write itself still completes in order, only the caller
		// stops waiting for the outcome.
		err = ctx.Err()
	}
	return
}

// Per-endpoint writer loop. Transmissions complete atomically from the
// endpoint's perspective, one full payload per Write call.
func (endpoint *Endpoint) drain(ctx context.Context) {
	defer close(endpoint.done)

	for request := range endpoint.inbox {
		_, writeErr := endpoint.writer.Write(request.payload)
		if writeErr != nil {
			endpoint.Metrics.WriteFailures.Add(1)
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"Endpoint %s: failed to send message: %v\n", endpoint.Name, writeErr)
			request.result <- fmt.Errorf("%w: %v", ErrTransport, writeErr)
			continue
		}

		payloadLength := uint64(len(request.payload))
		endpoint.Metrics.TotalMessages.Add(1)
		endpoint.Metrics.SumPayloadBytes.Add(payloadLength)

		maxSeenPayloadBytes := endpoint.Metrics.MaxPayloadBytes.Load()
		if payloadLength > maxSeenPayloadBytes {
			endpoint.Metrics.MaxPayloadBytes.CompareAndSwap(maxSeenPayloadBytes, payloadLength)
		}

		logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
			"Endpoint %s: sent message (size %d)\n", endpoint.Name, payloadLength)

		request.result <- nil
	}
}
