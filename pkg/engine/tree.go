package engine

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/go-drift/stage/pkg/node"
)

// maxTreeDepth limits recursion depth when serializing.
const maxTreeDepth = 500

// TreeNode is the serialized form of a node for /tree.
type TreeNode struct {
	Type            string     `json:"type"`
	Name            string     `json:"name,omitempty"`
	ID              string     `json:"id"`
	State           string     `json:"state"`
	Position        SafeVec2   `json:"position"`
	Size            SafeVec2   `json:"size"`
	Visible         bool       `json:"visible"`
	Enabled         bool       `json:"enabled"`
	IgnoreHierarchy bool       `json:"ignoreHierarchy,omitempty"`
	Widget          bool       `json:"widget,omitempty"`
	Children        []TreeNode `json:"children,omitempty"`
}

// SafeFloat wraps a float32 to handle Inf/NaN in JSON encoding.
type SafeFloat float32

func (f SafeFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

// SafeVec2 is a JSON-safe vector.
type SafeVec2 struct {
	X SafeFloat `json:"x"`
	Y SafeFloat `json:"y"`
}

// Snapshot serializes the tree rooted at n. Call it on the loop goroutine.
func Snapshot(n node.Node) TreeNode {
	return serializeTree(n, 0)
}

func serializeTree(n node.Node, depth int) TreeNode {
	pos, size := n.Position(), n.Size()
	out := TreeNode{
		Type:            reflect.TypeOf(n).String(),
		Name:            n.Name(),
		ID:              n.ID().String(),
		State:           n.State().String(),
		Position:        SafeVec2{X: SafeFloat(pos[0]), Y: SafeFloat(pos[1])},
		Size:            SafeVec2{X: SafeFloat(size[0]), Y: SafeFloat(size[1])},
		Visible:         n.Visible(),
		Enabled:         n.Enabled(),
		IgnoreHierarchy: n.IgnoreHierarchy(),
		Widget:          node.IsWidget(n),
	}
	if depth >= maxTreeDepth {
		return out
	}
	if g, ok := n.(interface{ Children() []node.Node }); ok {
		for _, child := range g.Children() {
			out.Children = append(out.Children, serializeTree(child, depth+1))
		}
	}
	return out
}
