package capture

import (
	"bytes"
	"midistream/internal/egress"
	"midistream/internal/router"
	"sync"
	"sync/atomic"
)

// Resolved capture settings after config validation
type Config struct {
	Inputs       []Input
	OutputPath   string
	MaxSources   int
	MinQueueSize int
	MaxQueueSize int
}

// One byte-stream input for a capture run
type Input struct {
	Path        string
	DisplayName string
}

// An active capture run. Wires one router into one egress endpoint whose
// writer accumulates the serialized message stream for sealing.
type Session struct {
	Namespace []string

	config Config
	router *router.Instance
	egress *egress.Instance

	buffer  *lockedBuffer
	Metrics MetricStorage
}

// Buffer writer shared between the egress drain goroutine and the final
// seal step. The drain goroutine has exited before Bytes is read, the
// lock covers the overlap window only.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (writer *lockedBuffer) Write(payload []byte) (n int, err error) {
	writer.mu.Lock()
	n, err = writer.buf.Write(payload)
	writer.mu.Unlock()
	return
}

func (writer *lockedBuffer) Bytes() (contents []byte) {
	writer.mu.Lock()
	contents = append(contents, writer.buf.Bytes()...)
	writer.mu.Unlock()
	return
}

type MetricStorage struct {
	InputBytes      atomic.Uint64
	SealedBytes     atomic.Uint64
	CompletedInputs atomic.Uint64
}
