package testing

import (
	"fmt"
	"reflect"

	"github.com/go-drift/stage/pkg/node"
)

// Finder locates nodes in a tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root node.Node) []node.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []node.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() node.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) node.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []node.Node { return r.nodes }

// Count returns the number of matches.
func (r FinderResult) Count() int { return len(r.nodes) }

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool { return len(r.nodes) > 0 }

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// Find evaluates f against root.
func Find(root node.Node, f Finder) FinderResult {
	return FinderResult{nodes: f.Evaluate(root), finder: f}
}

type typeFinder struct {
	nodeType reflect.Type
}

func (f *typeFinder) Evaluate(root node.Node) []node.Node {
	return collectMatches(root, func(n node.Node) bool {
		return reflect.TypeOf(n) == f.nodeType
	})
}

func (f *typeFinder) Description() string {
	return fmt.Sprintf("ByType(%s)", f.nodeType)
}

// ByType returns a finder that matches nodes of type T.
func ByType[T node.Node]() Finder {
	return &typeFinder{nodeType: reflect.TypeFor[T]()}
}

type nameFinder struct {
	name string
}

func (f *nameFinder) Evaluate(root node.Node) []node.Node {
	return collectMatches(root, func(n node.Node) bool { return n.Name() == f.name })
}

func (f *nameFinder) Description() string {
	return fmt.Sprintf("ByName(%q)", f.name)
}

// ByName returns a finder that matches nodes with the given debug name.
func ByName(name string) Finder {
	return &nameFinder{name: name}
}

type predicateFinder struct {
	fn   func(node.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root node.Node) []node.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string { return f.desc }

// ByPredicate returns a finder that matches nodes for which fn is true.
func ByPredicate(desc string, fn func(node.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: desc}
}

func collectMatches(root node.Node, match func(node.Node) bool) []node.Node {
	var out []node.Node
	var walk func(n node.Node)
	walk = func(n node.Node) {
		if match(n) {
			out = append(out, n)
		}
		for _, child := range children(n) {
			walk(child)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

func children(n node.Node) []node.Node {
	if g, ok := n.(interface{ Children() []node.Node }); ok {
		return g.Children()
	}
	return nil
}
