package engine

import (
	"sync/atomic"
	"time"
)

const (
	frameTraceSamplesDefault   = 240
	defaultFrameTraceThreshold = 16667 * time.Microsecond
)

// FramePhaseTimings captures time spent in each frame phase (ms).
type FramePhaseTimings struct {
	DispatchMs float64 `json:"dispatchMs"`
	InputMs    float64 `json:"inputMs"`
	UpdateMs   float64 `json:"updateMs"`
	DrawMs     float64 `json:"drawMs"`
	PresentMs  float64 `json:"presentMs"`
}

// FrameCounts captures per-frame workload indicators.
type FrameCounts struct {
	Dispatched int `json:"dispatched"`
	Events     int `json:"events"`
	Nodes      int `json:"nodes"`
}

// FrameSample is a single frame trace sample.
type FrameSample struct {
	Frame     uint64            `json:"frame"`
	Timestamp int64             `json:"ts"`
	FrameMs   float64           `json:"frameMs"`
	Phases    FramePhaseTimings `json:"phases"`
	Counts    FrameCounts       `json:"counts"`
	Panicked  bool              `json:"panicked,omitempty"`
}

// FrameTimeline is the /frames response shape.
type FrameTimeline struct {
	Samples       []FrameSample `json:"samples"`
	DroppedFrames int           `json:"droppedFrames"`
	ThresholdMs   float64       `json:"thresholdMs"`
}

// FrameTraceBuffer keeps the most recent frame samples and counts frames
// slower than its threshold over the runtime's whole life.
type FrameTraceBuffer struct {
	samples   *ring[FrameSample]
	threshold time.Duration
	dropped   atomic.Int64
}

// NewFrameTraceBuffer creates a buffer holding capacity samples. Zero
// values select 240 samples and a 60Hz frame budget.
func NewFrameTraceBuffer(capacity int, threshold time.Duration) *FrameTraceBuffer {
	if capacity <= 0 {
		capacity = frameTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultFrameTraceThreshold
	}
	return &FrameTraceBuffer{samples: newRing[FrameSample](capacity), threshold: threshold}
}

// Capacity returns the number of samples retained.
func (b *FrameTraceBuffer) Capacity() int { return b.samples.capacity() }

// Threshold returns the duration above which a frame counts as dropped.
func (b *FrameTraceBuffer) Threshold() time.Duration { return b.threshold }

// Add records sample, whose frame took d.
func (b *FrameTraceBuffer) Add(sample FrameSample, d time.Duration) {
	b.samples.push(sample)
	if d > b.threshold {
		b.dropped.Add(1)
	}
}

// Snapshot returns the retained samples, oldest first, with the totals.
func (b *FrameTraceBuffer) Snapshot() FrameTimeline {
	return FrameTimeline{
		Samples:       b.samples.items(),
		DroppedFrames: int(b.dropped.Load()),
		ThresholdMs:   durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
