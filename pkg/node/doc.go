// Package node provides the retained node tree: leaves and containers with a
// deterministic lifecycle, per-frame update and draw dispatch, and
// hierarchical input routing.
//
// # Nodes
//
// Every node embeds Base, which carries geometry, the visible and enabled
// flags, the dependency registry and the lifecycle state. Behaviour is added
// by implementing capability interfaces that containers query at dispatch:
//
//	type spinner struct {
//	    node.Base
//	}
//
//	func (s *spinner) Update()               { s.SetRotation(s.Rotation() + 0.01) }
//	func (s *spinner) Draw(sf node.Surface)  { ... }
//
// The capabilities are Updater, Drawer, KeyListener and MouseListener.
// Lifecycle hooks are the Load, LoadComplete and Dispose methods of Node;
// override them and call the embedded implementation.
//
// # Lifecycle
//
// A node starts Unloaded. Container.Load loads the decoration and then the
// children in insertion order, moving each to Loaded exactly once.
// LoadComplete runs afterwards, depth-first, so nodes can look at siblings
// that were not ready during Load. Dispose is terminal. States only move
// forward:
//
//	Unloaded ──► Loading ──► Loaded ──► LoadComplete
//	    │                      │             │
//	    └──────────────────────┴─────────────┴──► Disposed
//
// Nodes added to a container that has already loaded are loaded and
// completed immediately.
//
// # Input routing
//
// Each container routes an event only to its direct children that listen
// for that kind of event. Enabled children with IgnoreHierarchy set always
// receive it. Of the remaining enabled listeners only the topmost (the most
// recently added) receives it. Containers themselves ignore the hierarchy by
// default, so events pass through them to their own children, which repeat
// the rule.
//
// # Mutation during traversal
//
// Removing a node while its container is updating, drawing or routing is
// allowed. The node leaves the container immediately and receives no further
// calls in that pass; the container compacts its slots once the traversal
// finishes. Nodes added during a traversal are first visited by the next one.
//
// The tree is not safe for concurrent use. All calls belong to the frame
// loop.
package node
