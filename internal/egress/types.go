package egress

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

var (
	// Send references an endpoint that is absent or already unregistered
	ErrNoDestination = errors.New("no such endpoint")
	// The underlying channel rejected the write. Reported, never retried here.
	ErrTransport = errors.New("endpoint write failed")
)

// One queued outbound write and the channel its outcome is reported on
type transmission struct {
	payload []byte
	result  chan error
}

// A registered output destination. Each endpoint owns a single drain
// goroutine, so at most one transmission is in flight per endpoint and
// writes are never interleaved at the byte level.
type Endpoint struct {
	Name    string
	writer  io.Writer
	inbox   chan transmission
	done    chan struct{} // closed when the drain goroutine exits
	closing sync.RWMutex  // guards inbox against submit-after-close
	closed  bool
	Metrics *MetricStorage
}

type Instance struct {
	Namespace []string
	mu        sync.RWMutex
	endpoints map[string]*Endpoint
	queueSize int
}

type MetricStorage struct {
	TotalMessages   atomic.Uint64
	SumPayloadBytes atomic.Uint64
	MaxPayloadBytes atomic.Uint64
	WriteFailures   atomic.Uint64
}
