package testing

import (
	"testing"

	"github.com/go-drift/stage/pkg/engine"
	"github.com/go-drift/stage/pkg/geometry"
	"github.com/go-drift/stage/pkg/input"
	"github.com/go-drift/stage/pkg/node"
)

// Tester runs a runtime against a ScriptedHost one frame at a time.
type Tester struct {
	rt   *engine.Runtime
	host *ScriptedHost
}

// NewTester creates a tester with its own runtime. Call Cleanup when done,
// or use NewTesterWithT instead.
func NewTester(opts engine.Options) *Tester {
	host := NewScriptedHost()
	return &Tester{rt: engine.New(host, opts), host: host}
}

// NewTesterWithT creates a tester that disposes its runtime via t.Cleanup.
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T) *Tester {
	tester := NewTester(engine.Options{})
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup disposes the runtime.
func (t *Tester) Cleanup() { t.rt.Dispose() }

// Runtime returns the runtime under test.
func (t *Tester) Runtime() *engine.Runtime { return t.rt }

// Host returns the scripted host.
func (t *Tester) Host() *ScriptedHost { return t.host }

// Root returns the runtime's root container.
func (t *Tester) Root() *node.Container { return t.rt.Root() }

// Mount adds nodes to the root and pumps a frame, which starts the runtime
// on first use.
func (t *Tester) Mount(nodes ...node.Node) error {
	t.rt.Root().AddAll(nodes...)
	return t.Pump()
}

// Pump runs a single frame.
func (t *Tester) Pump() error {
	return t.rt.Frame()
}

// PumpN runs n frames, stopping at the first error.
func (t *Tester) PumpN(n int) error {
	for range n {
		if err := t.Pump(); err != nil {
			return err
		}
	}
	return nil
}

// PumpUntilIdle runs frames until every scripted frame has been polled.
func (t *Tester) PumpUntilIdle() error {
	for t.host.Pending() > 0 {
		if err := t.Pump(); err != nil {
			return err
		}
	}
	return nil
}

// Dispatch queues fn for the next frame, as engine.Runtime.Dispatch does.
func (t *Tester) Dispatch(fn func()) { t.rt.Dispatch(fn) }

// Send delivers events in one frame.
func (t *Tester) Send(events ...input.Event) error {
	t.host.QueueFrame(events...)
	return t.Pump()
}

// KeyDown sends a key press.
func (t *Tester) KeyDown(code input.Key) error { return t.Send(input.KeyDown(code)) }

// KeyUp sends a key release.
func (t *Tester) KeyUp(code input.Key) error { return t.Send(input.KeyUp(code)) }

// Press sends a key press and release in one frame.
func (t *Tester) Press(code input.Key) error {
	return t.Send(input.KeyDown(code), input.KeyUp(code))
}

// MouseDown sends a button press at pos.
func (t *Tester) MouseDown(button input.MouseButton, pos geometry.Vec2) error {
	return t.Send(input.MouseDown(button, pos))
}

// MouseUp sends a button release at pos.
func (t *Tester) MouseUp(button input.MouseButton, pos geometry.Vec2) error {
	return t.Send(input.MouseUp(button, pos))
}

// MouseMotion sends a pointer move to pos.
func (t *Tester) MouseMotion(pos geometry.Vec2) error {
	return t.Send(input.MouseMotion(input.ButtonNone, pos))
}

// Click sends a press and release at pos in one frame.
func (t *Tester) Click(button input.MouseButton, pos geometry.Vec2) error {
	return t.Send(input.MouseDown(button, pos), input.MouseUp(button, pos))
}

// Drag presses at from, moves in steps to to, and releases, one event per
// frame.
func (t *Tester) Drag(button input.MouseButton, from, to geometry.Vec2, steps int) error {
	if steps < 1 {
		steps = 1
	}
	if err := t.MouseDown(button, from); err != nil {
		return err
	}
	delta := geometry.Scale(geometry.Sub(to, from), 1/float32(steps))
	pos := from
	for range steps {
		pos = geometry.Add(pos, delta)
		if err := t.Send(input.MouseMotion(button, pos)); err != nil {
			return err
		}
	}
	return t.MouseUp(button, to)
}

// Find evaluates f against the root.
func (t *Tester) Find(f Finder) FinderResult {
	return Find(t.rt.Root(), f)
}

// Dump renders the root tree. See Dump.
func (t *Tester) Dump() string { return Dump(t.rt.Root()) }
