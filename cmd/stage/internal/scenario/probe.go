package scenario

import (
	"fmt"
	"strings"

	"github.com/go-drift/stage/pkg/deps"
	"github.com/go-drift/stage/pkg/input"
	"github.com/go-drift/stage/pkg/node"
)

// Delivery records one event reaching one group.
type Delivery struct {
	Frame uint64      `json:"frame"`
	Node  string      `json:"node"`
	Event input.Event `json:"-"`
	Text  string      `json:"event"`
}

func (d Delivery) String() string {
	return fmt.Sprintf("frame %d: %s <- %s", d.Frame, d.Node, d.Text)
}

// Log collects deliveries. Groups find it in the dependency store when
// they load.
type Log struct {
	frame      func() uint64
	deliveries []Delivery
}

// NewLog returns a log stamping deliveries with the value of frame.
func NewLog(frame func() uint64) *Log {
	return &Log{frame: frame}
}

// Record appends a delivery.
func (l *Log) Record(name string, e input.Event) {
	var frame uint64
	if l.frame != nil {
		frame = l.frame()
	}
	l.deliveries = append(l.deliveries, Delivery{Frame: frame, Node: name, Event: e, Text: e.String()})
}

// Deliveries returns the recorded deliveries in order.
func (l *Log) Deliveries() []Delivery { return l.deliveries }

func (l *Log) String() string {
	var sb strings.Builder
	for _, d := range l.deliveries {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// group is a container that records what it receives before routing it on
// to its children. A left press fills its decoration until the next
// release.
type group struct {
	node.Container
	log *Log
}

func (g *group) Load(r deps.Registry) {
	if log, err := deps.Retrieve[*Log](r); err == nil {
		g.log = log
	}
	g.Container.Load(r)
}

func (g *group) record(e input.Event) {
	if g.log != nil {
		g.log.Record(g.Name(), e)
	}
}

func (g *group) KeyDown(e input.KeyEvent) {
	g.record(input.KeyDown(e.Code))
	g.Container.KeyDown(e)
}

func (g *group) KeyUp(e input.KeyEvent) {
	g.record(input.KeyUp(e.Code))
	g.Container.KeyUp(e)
}

func (g *group) MouseDown(e input.MouseEvent) {
	g.record(input.MouseDown(e.Button, e.Position))
	g.Container.MouseDown(e)
	if e.Button == input.ButtonLeft {
		g.SetFill(true)
	}
}

func (g *group) MouseUp(e input.MouseEvent) {
	g.record(input.MouseUp(e.Button, e.Position))
	g.Container.MouseUp(e)
	g.SetFill(false)
}

func (g *group) MouseMotion(e input.MouseEvent) {
	g.record(input.MouseMotion(e.Button, e.Position))
	g.Container.MouseMotion(e)
}
