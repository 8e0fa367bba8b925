// Package testing drives node trees headlessly, frame by frame.
//
// # Quick Start
//
// Create a tester, mount nodes, feed input and pump frames:
//
//	func TestMenu(t *testing.T) {
//	    tester := stagetest.NewTesterWithT(t)
//	    menu := NewMenu()
//	    tester.Mount(menu)
//
//	    tester.Click(input.ButtonLeft, geometry.V(10, 10))
//
//	    if !tester.Find(stagetest.ByName("submenu")).Exists() {
//	        t.Error("expected submenu")
//	    }
//	}
//
// Each input helper queues host events and pumps one frame, so the events
// are routed through the root exactly as a real host would deliver them.
//
// # Draw recording
//
// The scripted host's surface is a Recorder. It implements
// node.RectFiller and collects every fill, plus any custom operations nodes
// record, for the frame being drawn:
//
//	ops := tester.Host().Recorder().Last()
//
// # Golden dumps
//
// Dump renders a tree as indented text with stable names. MatchGolden
// compares it with testdata/golden/<name>.golden; run the tests with
// -update to rewrite the files.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import stagetest "github.com/go-drift/stage/pkg/testing"
package testing
