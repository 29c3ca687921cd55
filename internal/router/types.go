package router

import (
	"errors"
	"midistream/internal/midi"
	"midistream/internal/midi/decoder"
	"midistream/internal/queue/mpsc"
	"sync"
	"sync/atomic"
)

var (
	// Attach refused, the configured maximum source count is reached
	ErrCapacityExceeded = errors.New("maximum source count reached")
	// Operation references a source id with no live binding
	ErrUnknownSource = errors.New("unknown source id")
)

// Destination for decoded messages. Deliver may be invoked from the
// router's single dispatch goroutine only, so implementations need no
// internal ordering of their own.
type Sink interface {
	Deliver(msg midi.Message)
}

// One attached input source. Owned exclusively by the router, created on
// attach and discarded on detach. The binding mutex serializes decoding
// for this source only, cross-source calls never contend.
type SourceBinding struct {
	ID          int
	DisplayName string

	mu       sync.Mutex
	state    *decoder.State
	detached atomic.Bool // set on detach, gates delivery of in-flight results
}

// Queue entry pairing a decoded message with its originating binding so
// the dispatcher can drop results for sources detached mid-flight
type delivery struct {
	msg     midi.Message
	binding *SourceBinding
}

type Instance struct {
	Namespace  []string
	mu         sync.RWMutex // protects bindings map, not per-source decode state
	bindings   map[int]*SourceBinding
	maxSources int
	sink       Sink
	outbox     *mpsc.Queue[delivery]
	Metrics    MetricStorage
}
