package engine

import (
	"context"
	rtmetrics "runtime/metrics"
	"time"
)

const (
	runtimeSampleMinInterval = 100 * time.Millisecond
	runtimeSampleWindow      = time.Minute
	runtimeSampleMaxSamples  = 120
)

// RuntimeSample is one reading of the Go runtime's memory and scheduler
// metrics.
type RuntimeSample struct {
	Timestamp  int64  `json:"ts"`
	HeapBytes  uint64 `json:"heapBytes"`
	TotalBytes uint64 `json:"totalBytes"`
	GCCycles   uint64 `json:"gcCycles"`
	Goroutines uint64 `json:"goroutines"`
}

// runtimeMetrics are read into a RuntimeSample in this order.
var runtimeMetrics = [...]string{
	"/memory/classes/heap/objects:bytes",
	"/memory/classes/total:bytes",
	"/gc/cycles/total:gc-cycles",
	"/sched/goroutines:goroutines",
}

// RuntimeSampleBuffer keeps the runtime samples of the last minute.
type RuntimeSampleBuffer struct {
	samples  *ring[RuntimeSample]
	interval time.Duration
}

// NewRuntimeSampleBuffer sizes a buffer for window at the given interval,
// keeping at most 120 samples. Intervals below 100ms are raised to it.
func NewRuntimeSampleBuffer(window, interval time.Duration) *RuntimeSampleBuffer {
	interval = normalizeRuntimeInterval(interval)
	if window <= 0 {
		window = runtimeSampleWindow
	}
	n := min(int(window/interval), runtimeSampleMaxSamples)
	return &RuntimeSampleBuffer{samples: newRing[RuntimeSample](n), interval: interval}
}

// Interval returns the sampling interval.
func (b *RuntimeSampleBuffer) Interval() time.Duration { return b.interval }

// Add stores a sample, evicting the oldest when full.
func (b *RuntimeSampleBuffer) Add(s RuntimeSample) { b.samples.push(s) }

// Snapshot returns the retained samples, oldest first.
func (b *RuntimeSampleBuffer) Snapshot() []RuntimeSample { return b.samples.items() }

func normalizeRuntimeInterval(interval time.Duration) time.Duration {
	return max(interval, runtimeSampleMinInterval)
}

func readRuntimeSample() RuntimeSample {
	var batch [len(runtimeMetrics)]rtmetrics.Sample
	for i, name := range runtimeMetrics {
		batch[i].Name = name
	}
	rtmetrics.Read(batch[:])

	value := func(i int) uint64 {
		if batch[i].Value.Kind() != rtmetrics.KindUint64 {
			return 0
		}
		return batch[i].Value.Uint64()
	}
	return RuntimeSample{
		Timestamp:  time.Now().UnixMilli(),
		HeapBytes:  value(0),
		TotalBytes: value(1),
		GCCycles:   value(2),
		Goroutines: value(3),
	}
}

// sampleRuntime records a sample at once and then every interval until ctx
// ends. The returned channel closes when sampling has stopped.
func sampleRuntime(ctx context.Context, buffer *RuntimeSampleBuffer) <-chan struct{} {
	buffer.Add(readRuntimeSample())

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(buffer.Interval())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				buffer.Add(readRuntimeSample())
			case <-ctx.Done():
				return
			}
		}
	}()
	return done
}
