package testing

import (
	"github.com/go-drift/stage/pkg/input"
	"github.com/go-drift/stage/pkg/node"
)

// ScriptedHost is an engine.Host that replays queued events and records
// draw calls instead of showing them.
type ScriptedHost struct {
	frames   [][]input.Event
	recorder *Recorder
	presents int
	// PresentErr, when set, is returned by Present.
	PresentErr error
}

// NewScriptedHost returns a host with an empty script.
func NewScriptedHost() *ScriptedHost {
	return &ScriptedHost{recorder: &Recorder{}}
}

// Queue appends events to the next frame that has not been polled yet.
func (h *ScriptedHost) Queue(events ...input.Event) {
	if len(h.frames) == 0 {
		h.frames = append(h.frames, nil)
	}
	last := len(h.frames) - 1
	h.frames[last] = append(h.frames[last], events...)
}

// QueueFrame schedules events for a frame of their own, after any frames
// already queued.
func (h *ScriptedHost) QueueFrame(events ...input.Event) {
	h.frames = append(h.frames, events)
}

// Pending returns the number of queued frames not yet polled.
func (h *ScriptedHost) Pending() int { return len(h.frames) }

// Poll returns the next queued frame of events.
func (h *ScriptedHost) Poll() []input.Event {
	if len(h.frames) == 0 {
		return nil
	}
	events := h.frames[0]
	h.frames = h.frames[1:]
	return events
}

// Surface returns the recorder.
func (h *ScriptedHost) Surface() node.Surface { return h.recorder }

// Present closes the recorder's frame.
func (h *ScriptedHost) Present() error {
	h.presents++
	h.recorder.endFrame()
	return h.PresentErr
}

// Presents returns the number of presented frames.
func (h *ScriptedHost) Presents() int { return h.presents }

// Recorder returns the draw recorder behind Surface.
func (h *ScriptedHost) Recorder() *Recorder { return h.recorder }
