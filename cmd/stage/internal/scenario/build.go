package scenario

import (
	"strconv"

	"github.com/go-drift/stage/pkg/geometry"
	"github.com/go-drift/stage/pkg/node"
)

// Build creates the scenario's top-level nodes. Groups default to taking
// part in topmost-wins routing and to the node package's default size.
// Unnamed nodes are named after their index path, such as "1.0".
func (s *Scenario) Build() []node.Node {
	return buildAll(s.Nodes, "")
}

func buildAll(specs []NodeSpec, prefix string) []node.Node {
	nodes := make([]node.Node, 0, len(specs))
	for i, spec := range specs {
		path := strconv.Itoa(i)
		if prefix != "" {
			path = prefix + "." + path
		}
		nodes = append(nodes, build(spec, path))
	}
	return nodes
}

func build(spec NodeSpec, path string) node.Node {
	name := spec.Name
	if name == "" {
		name = path
	}
	pos, _ := vec(spec.Position, geometry.Vec2{})
	size, _ := vec(spec.Size, node.DefaultSize)
	colour, _ := ParseColour(spec.Colour)

	var n interface {
		node.Node
		SetName(string)
		SetIgnoreHierarchy(bool)
	}
	switch spec.Kind {
	case KindBox:
		n = node.NewBox(colour)
	default:
		g := &group{}
		if colour != nil {
			g.SetColour(colour)
		}
		g.SetFill(spec.Fill)
		g.SetIgnoreHierarchy(false)
		g.AddAll(buildAll(spec.Children, path)...)
		n = g
	}

	n.SetName(name)
	n.SetPosition(pos)
	n.SetSize(size)
	if spec.IgnoreHierarchy != nil {
		n.SetIgnoreHierarchy(*spec.IgnoreHierarchy)
	}
	if spec.Enabled != nil {
		n.SetEnabled(*spec.Enabled)
	}
	if spec.Visible != nil {
		n.SetVisible(*spec.Visible)
	}
	return n
}
