package overlay

import "github.com/go-drift/stage/pkg/node"

var nextEntryID uint64

// Entry is one free-floating widget on a Compositor's stack.
type Entry struct {
	Widget node.Widget

	compositor *Compositor
	id         uint64
}

// NewEntry returns an entry for w.
func NewEntry(w node.Widget) *Entry {
	return &Entry{Widget: w}
}

// ID returns the entry's stable identifier, assigned on first insert.
func (e *Entry) ID() uint64 { return e.id }

// Inserted reports whether the entry is on a stack.
func (e *Entry) Inserted() bool { return e.compositor != nil }

// Remove takes the entry off its stack. Removing an entry that is not
// inserted does nothing.
func (e *Entry) Remove() {
	if e.compositor == nil {
		return
	}
	e.compositor.remove(e)
}
