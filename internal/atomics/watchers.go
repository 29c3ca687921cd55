package atomics

import (
	"sync/atomic"
	"time"
)

// Polls the atomic source until it reads zero or the deadline lapses.
// Returns the last observed value alongside whether zero was reached.
func WaitUntilZero(source *atomic.Uint64) (success bool, lastValue uint64) {
	const pollInterval = 10 * time.Millisecond
	const maxWait = 5 * time.Second

	deadline := time.Now().Add(maxWait)
	for {
		lastValue = source.Load()
		if lastValue == 0 {
			success = true
			return
		}

		if time.Now().After(deadline) {
			return
		}

		time.Sleep(pollInterval)
	}
}
