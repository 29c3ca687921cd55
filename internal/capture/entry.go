// Capture session: reads raw MIDI byte streams from files or pipes,
// decodes them through the source router, serializes the decoded
// messages through an egress endpoint, and seals the result into an
// encrypted container on disk.
package capture

import (
	"context"
	"fmt"
	"io"
	"midistream/internal/egress"
	"midistream/internal/global"
	"midistream/internal/logctx"
	"midistream/internal/midi"
	"midistream/internal/router"
	"midistream/pkg/container"
	"os"
	"strconv"
	"time"
)

const captureEndpoint = "capture"

// Per-read chunk size. Deliberately not message aligned, the decoder
// buffers partials across chunk boundaries.
const readChunkSize = 4096

// How often the dispatch queue capacity is reevaluated during a run
const queueScaleInterval = 5 * time.Second

// Sink forwarding decoded messages to the capture egress endpoint
type egressSink struct {
	ctx    context.Context
	egress *egress.Instance
}

func (sink *egressSink) Deliver(msg midi.Message) {
	err := sink.egress.Send(sink.ctx, captureEndpoint, msg)
	if err != nil {
		logctx.LogEvent(sink.ctx, global.VerbosityStandard, global.ErrorLog,
			"Capture: failed to serialize message: %v\n", err)
	}
}

// Builds a capture session from validated config
func NewSession(ctx context.Context, config Config) (session *Session, err error) {
	if len(config.Inputs) == 0 {
		err = fmt.Errorf("no inputs configured")
		return
	}
	if config.OutputPath == "" {
		err = fmt.Errorf("no output path configured")
		return
	}

	ns := []string{global.NSCapture}

	session = &Session{
		Namespace: ns,
		config:    config,
		buffer:    &lockedBuffer{},
	}

	session.egress = egress.New(ns, global.DefaultEndpointQueueSize)
	err = session.egress.Register(ctx, captureEndpoint, session.buffer)
	if err != nil {
		err = fmt.Errorf("failed registering capture endpoint: %w", err)
		return
	}

	sink := &egressSink{ctx: ctx, egress: session.egress}
	session.router, err = router.New(ns, config.MaxSources, sink, config.MinQueueSize, config.MaxQueueSize)
	if err != nil {
		err = fmt.Errorf("failed creating router: %w", err)
		return
	}
	return
}

// Runs the capture to completion: every input is attached, streamed
// through the decoder, and detached. The serialized message stream is
// sealed with the key and written to the configured output path.
func (session *Session) Run(ctx context.Context, key []byte) (err error) {
	ctx = logctx.OverwriteCtxTag(ctx, session.Namespace)

	dispatchCtx, stopDispatch := context.WithCancel(ctx)
	defer stopDispatch()
	go session.router.Run(dispatchCtx)

	// Periodic queue capacity adjustment for the lifetime of the run
	go func() {
		ticker := time.NewTicker(queueScaleInterval)
		defer ticker.Stop()
		for {
			select {
			case <-dispatchCtx.Done():
				return
			case <-ticker.C:
				session.router.ScaleQueue(dispatchCtx)
			}
		}
	}()

	// Sources stay attached until the queue drains, a detach would make
	// the dispatcher discard their still-queued messages
	sourceIDs := make([]int, 0, len(session.config.Inputs))
	for _, input := range session.config.Inputs {
		var sourceID int
		sourceID, err = session.captureInput(ctx, input)
		if err != nil {
			return
		}
		sourceIDs = append(sourceIDs, sourceID)
		session.Metrics.CompletedInputs.Add(1)
	}

	if !session.router.WaitForDrain() {
		err = fmt.Errorf("dispatch queue did not drain")
		return
	}

	for _, sourceID := range sourceIDs {
		session.router.Detach(sourceID)
	}

	// Stop the writer goroutine before reading the buffer
	stopDispatch()
	err = session.egress.Unregister(captureEndpoint)
	if err != nil {
		return
	}

	stream := session.buffer.Bytes()
	blob, err := container.SealBytes(stream, key)
	if err != nil {
		err = fmt.Errorf("failed sealing capture: %w", err)
		return
	}

	err = os.WriteFile(session.config.OutputPath, blob, 0600)
	if err != nil {
		err = fmt.Errorf("failed writing sealed capture: %w", err)
		return
	}
	session.Metrics.SealedBytes.Store(uint64(len(blob)))

	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"Capture complete: %d inputs, %d bytes sealed to %s\n",
		session.Metrics.CompletedInputs.Load(), len(blob), session.config.OutputPath)
	return
}

// Streams one input through the router. The source remains attached on
// success so its queued messages survive until dispatch.
func (session *Session) captureInput(ctx context.Context, input Input) (sourceID int, err error) {
	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Path
	}

	sourceID, err = session.router.Attach(displayName)
	if err != nil {
		err = fmt.Errorf("failed attaching %s: %w", displayName, err)
		return
	}

	ctx = logctx.AppendCtxTag(ctx, global.NSSource)
	ctx = logctx.AppendCtxTag(ctx, strconv.Itoa(sourceID))

	var reader io.Reader
	if input.Path == "-" {
		reader = os.Stdin
	} else {
		var file *os.File
		file, err = os.Open(input.Path)
		if err != nil {
			err = fmt.Errorf("failed opening input %s: %w", displayName, err)
			return
		}
		defer file.Close()
		reader = file
	}

	logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
		"Capturing source %d (%s)\n", sourceID, displayName)

	chunk := make([]byte, readChunkSize)
	for {
		var bytesRead int
		bytesRead, err = reader.Read(chunk)
		if bytesRead > 0 {
			session.Metrics.InputBytes.Add(uint64(bytesRead))
			ingestErr := session.router.Ingest(ctx, sourceID, chunk[:bytesRead])
			if ingestErr != nil {
				err = fmt.Errorf("failed ingesting from %s: %w", displayName, ingestErr)
				return
			}
		}
		if err == io.EOF {
			err = nil
			break
		}
		if err != nil {
			err = fmt.Errorf("failed reading input %s: %w", displayName, err)
			return
		}
	}

	// Drop any trailing partial message before the source goes away
	err = session.router.FlushSource(ctx, sourceID)
	return
}
