// Package input defines the key and mouse events a host delivers to the node
// tree. Translating physical devices into these events is the host's job.
package input

import (
	"fmt"
	"strings"

	"github.com/go-drift/stage/pkg/geometry"
)

// Key is a host-defined key code.
type Key int

// Common key codes. Hosts may deliver any other value.
const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyTab
	KeyBackspace
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "escape"
	case KeyEnter:
		return "enter"
	case KeySpace:
		return "space"
	case KeyTab:
		return "tab"
	case KeyBackspace:
		return "backspace"
	case KeyArrowLeft:
		return "left"
	case KeyArrowRight:
		return "right"
	case KeyArrowUp:
		return "up"
	case KeyArrowDown:
		return "down"
	case KeyUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// MouseButton identifies a mouse button.
type MouseButton int

const (
	// ButtonNone is used for motion events with no button held.
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

func (b MouseButton) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return fmt.Sprintf("MouseButton(%d)", int(b))
	}
}

// Kind identifies the host entry point an event is delivered through.
type Kind int

const (
	KindKeyDown Kind = iota
	KindKeyUp
	KindMouseDown
	KindMouseUp
	KindMouseMotion
)

func (k Kind) String() string {
	switch k {
	case KindKeyDown:
		return "key-down"
	case KindKeyUp:
		return "key-up"
	case KindMouseDown:
		return "mouse-down"
	case KindMouseUp:
		return "mouse-up"
	case KindMouseMotion:
		return "mouse-motion"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsKey reports whether k is a key event kind.
func (k Kind) IsKey() bool {
	return k == KindKeyDown || k == KindKeyUp
}

// KeyEvent carries a key code.
type KeyEvent struct {
	Code Key
}

// MouseEvent carries the button and the pointer position in root coordinates.
type MouseEvent struct {
	Button   MouseButton
	Position geometry.Vec2
}

// Event is one host-observed input event. Exactly one of Key or Mouse is
// meaningful, selected by Kind.
type Event struct {
	Kind  Kind
	Key   KeyEvent
	Mouse MouseEvent
}

// KeyDown returns a key-down event.
func KeyDown(code Key) Event {
	return Event{Kind: KindKeyDown, Key: KeyEvent{Code: code}}
}

// KeyUp returns a key-up event.
func KeyUp(code Key) Event {
	return Event{Kind: KindKeyUp, Key: KeyEvent{Code: code}}
}

// MouseDown returns a mouse-down event.
func MouseDown(button MouseButton, pos geometry.Vec2) Event {
	return Event{Kind: KindMouseDown, Mouse: MouseEvent{Button: button, Position: pos}}
}

// MouseUp returns a mouse-up event.
func MouseUp(button MouseButton, pos geometry.Vec2) Event {
	return Event{Kind: KindMouseUp, Mouse: MouseEvent{Button: button, Position: pos}}
}

// MouseMotion returns a mouse-motion event.
func MouseMotion(button MouseButton, pos geometry.Vec2) Event {
	return Event{Kind: KindMouseMotion, Mouse: MouseEvent{Button: button, Position: pos}}
}

func (e Event) String() string {
	if e.Kind.IsKey() {
		return fmt.Sprintf("%s %s", e.Kind, e.Key.Code)
	}
	return fmt.Sprintf("%s %s (%g,%g)", e.Kind, e.Mouse.Button, e.Mouse.Position[0], e.Mouse.Position[1])
}

// ParseKey maps a key name as produced by Key.String back to its code.
func ParseKey(name string) (Key, bool) {
	for k := KeyUnknown; k <= KeyArrowDown; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return KeyUnknown, false
}

// ParseButton maps a button name as produced by MouseButton.String back to its value.
func ParseButton(name string) (MouseButton, bool) {
	for b := ButtonNone; b <= ButtonRight; b++ {
		if b.String() == name {
			return b, true
		}
	}
	return ButtonNone, false
}

// ParseKind maps a kind name as produced by Kind.String back to its value.
func ParseKind(name string) (Kind, bool) {
	for k := KindKeyDown; k <= KindMouseMotion; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return KindKeyDown, false
}

// ParseEvent parses the form produced by Event.String, for example
// "key-down enter" or "mouse-down left (3,4)".
func ParseEvent(s string) (Event, error) {
	kindName, rest, _ := strings.Cut(strings.TrimSpace(s), " ")
	kind, ok := ParseKind(kindName)
	if !ok {
		return Event{}, fmt.Errorf("input: unknown event kind %q", kindName)
	}
	rest = strings.TrimSpace(rest)

	if kind.IsKey() {
		code, ok := ParseKey(rest)
		if !ok {
			return Event{}, fmt.Errorf("input: unknown key %q", rest)
		}
		return Event{Kind: kind, Key: KeyEvent{Code: code}}, nil
	}

	buttonName, pos, _ := strings.Cut(rest, " ")
	button, ok := ParseButton(buttonName)
	if !ok {
		return Event{}, fmt.Errorf("input: unknown button %q", buttonName)
	}
	var x, y float32
	if _, err := fmt.Sscanf(strings.ReplaceAll(pos, " ", ""), "(%g,%g)", &x, &y); err != nil {
		return Event{}, fmt.Errorf("input: bad position %q in %q: %w", pos, s, err)
	}
	return Event{Kind: kind, Mouse: MouseEvent{Button: button, Position: geometry.V(x, y)}}, nil
}
