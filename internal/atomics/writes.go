package atomics

import (
	"sync/atomic"
	"time"
)

// Subtracts value from the atomic source, clamping at zero instead of
// wrapping. A source already at zero counts as success. Contended CAS
// attempts are retried up to maxRetries times with doubling backoff.
func Subtract(source *atomic.Uint64, value uint64, maxRetries int) (success bool) {
	retryInterval := time.Microsecond * 10

	for i := 0; i < maxRetries; i++ {
		current := source.Load()

		if current == 0 {
			success = true
			return
		}

		var newValue uint64
		if value >= current {
			newValue = 0
		} else {
			newValue = current - value
		}

		// Only lands if nothing else touched the counter since the load
		if source.CompareAndSwap(current, newValue) {
			success = true
			return
		}

		time.Sleep(retryInterval)
		retryInterval = retryInterval * 2
	}

	success = false // gave up after max attempts
	return
}
