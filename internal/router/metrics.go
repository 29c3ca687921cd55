package router

import "sync/atomic"

type MetricStorage struct {
	AttachedSources   atomic.Uint64 // currently live bindings
	DecodedMessages   atomic.Uint64
	MalformedBytes    atomic.Uint64 // decoder diagnostics absorbed
	DeliveredMessages atomic.Uint64
	DiscardedMessages atomic.Uint64 // results dropped after detach
}
