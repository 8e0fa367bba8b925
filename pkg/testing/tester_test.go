package testing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"github.com/go-drift/stage/pkg/geometry"
	"github.com/go-drift/stage/pkg/input"
	"github.com/go-drift/stage/pkg/node"
	stagetest "github.com/go-drift/stage/pkg/testing"
)

type badge struct {
	node.WidgetBase
}

func TestTesterRoutesInputThroughRoot(t *testing.T) {
	tester := stagetest.NewTesterWithT(t)
	var log []string
	area := &node.MouseArea{
		OnMouseDown:   func(e input.MouseEvent) { log = append(log, "down "+e.Button.String()) },
		OnMouseUp:     func(e input.MouseEvent) { log = append(log, "up") },
		OnMouseMotion: func(e input.MouseEvent) { log = append(log, "move") },
	}
	require.NoError(t, tester.Mount(area))

	require.NoError(t, tester.Click(input.ButtonLeft, geometry.V(5, 5)))
	require.NoError(t, tester.Drag(input.ButtonRight, geometry.V(0, 0), geometry.V(10, 0), 2))

	assert.Equal(t, []string{
		"down " + input.ButtonLeft.String(), "up",
		"down " + input.ButtonRight.String(), "move", "move", "up",
	}, log)
	assert.Equal(t, 1+1+4, tester.Host().Presents())
}

func TestTesterKeys(t *testing.T) {
	tester := stagetest.NewTesterWithT(t)
	var codes []input.Key
	require.NoError(t, tester.Mount(&node.KeyArea{
		OnKeyDown: func(e input.KeyEvent) { codes = append(codes, e.Code) },
		OnKeyUp:   func(e input.KeyEvent) { codes = append(codes, -e.Code) },
	}))

	require.NoError(t, tester.Press(input.KeyEnter))
	require.NoError(t, tester.KeyDown(input.KeyEscape))
	assert.Equal(t, []input.Key{input.KeyEnter, -input.KeyEnter, input.KeyEscape}, codes)
}

func TestTesterRecordsDraws(t *testing.T) {
	tester := stagetest.NewTesterWithT(t)
	box := node.NewBox(colornames.Red)
	box.SetSize(geometry.V(10, 20))
	custom := &node.Func{OnDraw: func(s node.Surface) {
		s.(*stagetest.Recorder).Record("custom")
	}}
	require.NoError(t, tester.Mount(box, custom))

	assert.Equal(t, "fill (0,0)-(10,20) #ff0000ff\nrecord custom\n", tester.Host().Recorder().String())
}

func TestTesterDispatchRunsNextFrame(t *testing.T) {
	tester := stagetest.NewTesterWithT(t)
	ran := false
	tester.Dispatch(func() { ran = true })
	assert.False(t, ran)
	require.NoError(t, tester.Pump())
	assert.True(t, ran)
}

func TestTesterPumpUntilIdle(t *testing.T) {
	tester := stagetest.NewTesterWithT(t)
	var events int
	require.NoError(t, tester.Mount(&node.KeyArea{OnKeyDown: func(input.KeyEvent) { events++ }}))
	tester.Host().QueueFrame(input.KeyDown(input.KeySpace))
	tester.Host().QueueFrame(input.KeyDown(input.KeySpace))
	tester.Host().Queue(input.KeyDown(input.KeySpace))

	require.NoError(t, tester.PumpUntilIdle())
	assert.Equal(t, 3, events)
	assert.Zero(t, tester.Host().Pending())
}

func TestFinders(t *testing.T) {
	tester := stagetest.NewTesterWithT(t)
	inner := node.NewContainer(&badge{}, &node.Box{})
	inner.SetName("inner")
	require.NoError(t, tester.Mount(inner, &badge{}))

	assert.Equal(t, 2, tester.Find(stagetest.ByType[*badge]()).Count())
	assert.Same(t, inner, tester.Find(stagetest.ByName("inner")).First())
	widgets := tester.Find(stagetest.ByPredicate("widgets", node.IsWidget))
	assert.Equal(t, 2, widgets.Count())
	assert.False(t, tester.Find(stagetest.ByName("missing")).Exists())
	assert.Panics(t, func() { tester.Find(stagetest.ByName("missing")).First() })
}

func TestDumpGolden(t *testing.T) {
	tester := stagetest.NewTesterWithT(t)

	panel := node.NewContainer()
	panel.SetName("panel")
	panel.SetPosition(geometry.V(10, 20))
	panel.SetSize(geometry.V(200, 150))
	panel.SetIgnoreHierarchy(false)

	button := &node.MouseArea{}
	button.SetName("button")
	button.SetPosition(geometry.V(15, 25))
	button.SetSize(geometry.V(40, 12.5))
	hidden := &node.Box{}
	hidden.SetVisible(false)
	panel.AddAll(button, hidden)

	keys := &node.KeyArea{}
	keys.SetIgnoreHierarchy(true)
	keys.SetEnabled(false)

	require.NoError(t, tester.Mount(panel, keys, &badge{}))
	stagetest.MatchGolden(t, "tree", tester.Root())
}
