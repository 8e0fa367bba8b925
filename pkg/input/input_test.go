package input

import (
	"testing"

	"github.com/go-drift/stage/pkg/geometry"
)

func TestParseKey_RoundTrip(t *testing.T) {
	for k := KeyUnknown; k <= KeyArrowDown; k++ {
		got, ok := ParseKey(k.String())
		if !ok || got != k {
			t.Errorf("ParseKey(%q) = %v, %v; want %v", k.String(), got, ok, k)
		}
	}
	if k, ok := ParseKey("down"); !ok || k != KeyArrowDown {
		t.Errorf("ParseKey(down) = %v, %v", k, ok)
	}
	if _, ok := ParseKey("hyper"); ok {
		t.Error("ParseKey accepted an unknown name")
	}
}

func TestParseButton(t *testing.T) {
	if b, ok := ParseButton("right"); !ok || b != ButtonRight {
		t.Errorf("ParseButton(right) = %v, %v", b, ok)
	}
}

func TestEvent_String(t *testing.T) {
	if got := KeyDown(KeyEnter).String(); got != "key-down enter" {
		t.Errorf("got %q", got)
	}
	if got := MouseDown(ButtonLeft, geometry.V(3, 4)).String(); got != "mouse-down left (3,4)" {
		t.Errorf("got %q", got)
	}
}

func TestParseEvent(t *testing.T) {
	events := []Event{
		KeyDown(KeySpace),
		KeyUp(KeyEscape),
		MouseDown(ButtonLeft, geometry.V(150, 100)),
		MouseUp(ButtonRight, geometry.V(-2.5, 0)),
		MouseMotion(ButtonNone, geometry.V(210, 200)),
	}
	for _, e := range events {
		got, err := ParseEvent(e.String())
		if err != nil || got != e {
			t.Errorf("ParseEvent(%q) = %v, %v", e.String(), got, err)
		}
	}

	if got, err := ParseEvent("mouse-down left ( 3 , 4 )"); err != nil || got.Mouse.Position != geometry.V(3, 4) {
		t.Errorf("spaced position: %v, %v", got, err)
	}

	for _, bad := range []string{"", "scroll up", "key-down hyper", "mouse-up thumb (1,2)", "mouse-up left 1 2"} {
		if _, err := ParseEvent(bad); err == nil {
			t.Errorf("ParseEvent(%q) succeeded", bad)
		}
	}
}
