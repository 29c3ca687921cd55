package mpsc

import (
	"context"
	"midistream/internal/global"
	"midistream/internal/logctx"

	"github.com/pbnjay/memory"
)

// Resizes queue if nearing capacity limit or heavily unused
func (container *Queue[T]) ScaleCapacity(ctx context.Context) {
	activeQueue := container.ActiveWrite.Load()
	currentCapacity := activeQueue.Size
	currentDepth := activeQueue.Metrics.Depth.Load()

	// Check memory usage
	availMem := memory.FreeMemory()
	currentByteSize := activeQueue.Metrics.Bytes.Load()
	currentSizePerItem := currentByteSize / uint64(currentCapacity)

	// Estimate new queue maximum memory size in bytes
	expectedMaxNewQueueMemSize := uint64(nextPowerOfTwo(currentCapacity+1)) * currentSizePerItem

	utilization := float64(currentDepth) / float64(currentCapacity) * 100

	// Decide direction
	var scaleUp, scaleDown bool
	if utilization >= 90 && currentCapacity < container.maximumSize {
		// No scaling up when near system memory limit
		if availMem > 0 && expectedMaxNewQueueMemSize > availMem {
			return
		}

		scaleUp = true
	} else if utilization <= 2 && currentCapacity > container.minimumSize {
		scaleDown = true
	}

	if scaleUp {
		newSize := uint64(nextPowerOfTwo(currentCapacity + 1))

		err := container.mutateSize(newSize)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"Failed to scale queue capacity: %v\n", err)
			return
		}
		logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
			"Scaled up queue from %d to %d capacity\n", currentCapacity, newSize)
	} else if scaleDown {
		newSize := uint64(prevPowerOfTwo(currentCapacity))

		err := container.mutateSize(newSize)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"Failed to scale queue capacity: %v\n", err)
			return
		}
		logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
			"Scaled down queue from %d to %d capacity\n", currentCapacity, newSize)
	}
}

func nextPowerOfTwo(start int) (next int) {
	if start <= 1 {
		next = 1
		return
	}
	start--
	start |= start >> 1
	start |= start >> 2
	start |= start >> 4
	start |= start >> 8
	start |= start >> 16
	start |= start >> 32
	next = start + 1
	return
}

func prevPowerOfTwo(start int) (prev int) {
	if start == 0 {
		return
	}
	prev = nextPowerOfTwo(start) >> 1
	return
}
