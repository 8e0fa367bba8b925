package testing

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/go-drift/stage/pkg/node"
)

// Dump renders the tree under root as indented text, one node per line.
// Nodes are named by type and a per-type counter so the output is stable
// across runs:
//
//	Container#1 "root" load-complete pos=(0,0) size=(100,100)
//	  MouseArea#1 load-complete pos=(10,10) size=(20,20) disabled
func Dump(root node.Node) string {
	var sb strings.Builder
	counter := &typeCounter{}
	var walk func(n node.Node, depth int)
	walk = func(n node.Node, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(describe(n, counter))
		sb.WriteByte('\n')
		for _, child := range children(n) {
			walk(child, depth+1)
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return sb.String()
}

// MatchGolden compares Dump(root) with testdata/golden/<name>.golden.
func MatchGolden(t *testing.T, name string, root node.Node) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(Dump(root)))
}

type typeCounter struct {
	counts map[string]int
}

func (c *typeCounter) next(typeName string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[typeName]++
	return fmt.Sprintf("%s#%d", typeName, c.counts[typeName])
}

func describe(n node.Node, counter *typeCounter) string {
	t := reflect.TypeOf(n)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	parts := []string{counter.next(t.Name())}
	if name := n.Name(); name != "" {
		parts = append(parts, fmt.Sprintf("%q", name))
	}
	pos, size := n.Position(), n.Size()
	parts = append(parts,
		n.State().String(),
		fmt.Sprintf("pos=(%g,%g)", round2(pos[0]), round2(pos[1])),
		fmt.Sprintf("size=(%g,%g)", round2(size[0]), round2(size[1])),
	)
	if !n.Visible() {
		parts = append(parts, "hidden")
	}
	if !n.Enabled() {
		parts = append(parts, "disabled")
	}
	if _, isContainer := n.(interface{ Children() []node.Node }); n.IgnoreHierarchy() != isContainer {
		if n.IgnoreHierarchy() {
			parts = append(parts, "ignore-hierarchy")
		} else {
			parts = append(parts, "exclusive")
		}
	}
	if node.IsWidget(n) {
		parts = append(parts, "widget")
	}
	return strings.Join(parts, " ")
}

func round2(f float32) float64 {
	return math.Round(float64(f)*100) / 100
}
