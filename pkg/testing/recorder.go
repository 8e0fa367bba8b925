package testing

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-drift/stage/pkg/geometry"
)

// DrawOp is one recorded draw call.
type DrawOp struct {
	Op     string        `json:"op"`
	Rect   geometry.Rect `json:"rect"`
	Colour string        `json:"colour,omitempty"`
	Label  string        `json:"label,omitempty"`
}

func (d DrawOp) String() string {
	switch d.Op {
	case "fill":
		return fmt.Sprintf("fill %s %s", d.Rect, d.Colour)
	default:
		return fmt.Sprintf("%s %s", d.Op, d.Label)
	}
}

// Recorder is a draw surface that records operations instead of
// rasterizing them. Nodes draw into it through node.RectFiller or Record.
type Recorder struct {
	current []DrawOp
	last    []DrawOp
}

// FillRect records a fill.
func (r *Recorder) FillRect(rect geometry.Rect, c color.Color) {
	r.current = append(r.current, DrawOp{Op: "fill", Rect: rect, Colour: serializeColour(c)})
}

// Record records a custom operation, for nodes that draw something other
// than rectangles.
func (r *Recorder) Record(label string) {
	r.current = append(r.current, DrawOp{Op: "record", Label: label})
}

// Current returns the operations of the frame being drawn.
func (r *Recorder) Current() []DrawOp { return r.current }

// Last returns the operations of the last presented frame.
func (r *Recorder) Last() []DrawOp { return r.last }

// String lists the last frame's operations, one per line.
func (r *Recorder) String() string {
	var sb strings.Builder
	for _, op := range r.last {
		sb.WriteString(op.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r *Recorder) endFrame() {
	r.last = r.current
	r.current = nil
}

func serializeColour(c color.Color) string {
	if c == nil {
		return ""
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
