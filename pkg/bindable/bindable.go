// Package bindable provides reactive value cells that can be linked so a
// write in one part of the node tree shows up everywhere it is bound.
//
// A Bindable holds a value and at most one link of its own:
//
//   - BindTo(master) makes the cell a read-only mirror of master
//     (Unidirectional). Writes to master flow down to the mirror and on to
//     anything bound to the mirror. Writing the mirror directly fails with
//     errors.ErrInvalidOperation.
//   - Bind(other, secondary) links two cells symmetrically (Bidirectional).
//     A write to either reaches the other and everything reachable from it.
//
// Links form an undirected graph that may branch or contain cycles. Each
// write walks the graph once with a visited set, so every connected cell
// receives the value exactly once and propagation always terminates.
//
// Partner references are weak: binding two cells never keeps either alive.
// Call Unbind or Dispose to sever links explicitly.
//
// Cells are not safe for concurrent use. Like the node tree they belong to
// the frame loop.
package bindable

import (
	"fmt"
	"weak"

	"github.com/go-drift/stage/pkg/errors"
)

// Status is the binding status of a cell.
type Status int

const (
	// Unbound cells have no links of their own and no bidirectional partners.
	Unbound Status = iota
	// Unidirectional cells are read-only mirrors of a master.
	Unidirectional
	// Bidirectional cells share their value symmetrically with partners.
	Bidirectional
)

func (s Status) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Unidirectional:
		return "unidirectional"
	case Bidirectional:
		return "bidirectional"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Cell is implemented by *Bindable[T] and by every type embedding it, such
// as *Structured[T] and *Matrix3, so they can be bound to each other.
type Cell[T any] interface {
	cell() *Bindable[T]
}

type linkKind int

const (
	linkNone linkKind = iota
	linkMirror
	linkPeer
)

type listener[F any] struct {
	id int
	fn F
}

// Bindable is a reactive value cell. The zero value is an unbound cell
// holding the zero T.
type Bindable[T any] struct {
	value T

	kind    linkKind
	partner weak.Pointer[Bindable[T]]   // own link target, set when kind != linkNone
	mirrors []weak.Pointer[Bindable[T]] // cells mirroring this one
	peers   []weak.Pointer[Bindable[T]] // cells whose own bidirectional link points here

	setListeners     []listener[func(T)]
	changedListeners []listener[func(T)]
	getListeners     []listener[func()]
	nextListenerID   int
}

// New returns an unbound cell holding value.
func New[T any](value T) *Bindable[T] {
	return &Bindable[T]{value: value}
}

func (b *Bindable[T]) cell() *Bindable[T] { return b }

// Value returns the current value and notifies get listeners.
func (b *Bindable[T]) Value() T {
	for _, l := range b.getListeners {
		l.fn()
	}
	return b.value
}

// Set stores value, notifies set then changed listeners, and propagates the
// value to every cell bound to this one. It fails with
// errors.ErrInvalidOperation when the cell is a read-only mirror.
func (b *Bindable[T]) Set(value T) error {
	if b.link() == linkMirror {
		return errors.InvalidOperation("bindable.Set", "cell is a read-only mirror of its master")
	}
	b.assign(value, make(pass[T]))
	return nil
}

// MustSet is like Set but panics on error.
func (b *Bindable[T]) MustSet(value T) {
	if err := b.Set(value); err != nil {
		panic(err)
	}
}

// Status returns the binding status of the cell.
func (b *Bindable[T]) Status() Status {
	kind := b.link()
	switch {
	case kind == linkMirror:
		return Unidirectional
	case kind == linkPeer:
		return Bidirectional
	case len(live(b.peers)) > 0:
		return Bidirectional
	default:
		return Unbound
	}
}

// ReadOnly reports whether direct writes are rejected.
func (b *Bindable[T]) ReadOnly() bool {
	return b.link() == linkMirror
}

// Partner returns the cell this one linked itself to with Bind or BindTo, or
// nil when it has no own link or the partner has been collected.
func (b *Bindable[T]) Partner() *Bindable[T] {
	if b.link() == linkNone {
		return nil
	}
	return b.partner.Value()
}

// BindTo makes b a read-only mirror of master. Any previous links of b are
// severed first and master's current value is copied immediately.
func (b *Bindable[T]) BindTo(master Cell[T]) error {
	if master == nil {
		return errors.InvalidOperation("bindable.BindTo", "nil master")
	}
	m := master.cell()
	if m == b {
		return errors.InvalidOperation("bindable.BindTo", "cell cannot mirror itself")
	}
	for up := m; up != nil && up.link() == linkMirror; up = up.partner.Value() {
		if up.partner.Value() == b {
			return errors.InvalidOperation("bindable.BindTo", "master already mirrors this cell")
		}
	}

	b.Unbind()
	b.kind = linkMirror
	b.partner = weak.Make(m)
	m.mirrors = append(m.mirrors, weak.Make(b))

	p := make(pass[T])
	p.visit(m)
	b.assign(m.value, p)
	return nil
}

// Bind links b and other bidirectionally. b's own previous link is severed
// first. Unless secondary is set, b's value overwrites other's; with
// secondary, other's value overwrites b's. Binding to a read-only mirror
// fails with errors.ErrInvalidOperation.
func (b *Bindable[T]) Bind(other Cell[T], secondary bool) error {
	if other == nil {
		return errors.InvalidOperation("bindable.Bind", "nil partner")
	}
	o := other.cell()
	if o == b {
		return errors.InvalidOperation("bindable.Bind", "cell cannot bind to itself")
	}
	if o.link() == linkMirror {
		return errors.InvalidOperation("bindable.Bind", "partner is a read-only mirror")
	}

	b.unlink()
	b.kind = linkPeer
	b.partner = weak.Make(o)
	o.peers = append(o.peers, weak.Make(b))

	p := make(pass[T])
	if secondary {
		p.visit(o)
		b.assign(o.value, p)
	} else {
		p.visit(b)
		o.assign(b.value, p)
	}
	return nil
}

// Unbind severs b's own link and every bidirectional link that ends at b.
// The value is kept and the status becomes Unbound. Mirrors reading from b
// stay attached.
func (b *Bindable[T]) Unbind() {
	b.unlink()
	self := weak.Make(b)
	for _, p := range live(b.peers) {
		if p.kind == linkPeer && p.partner == self {
			p.kind = linkNone
			p.partner = weak.Pointer[Bindable[T]]{}
		}
	}
	b.peers = nil
}

// Dispose unbinds b, detaches its mirrors and drops all listeners.
func (b *Bindable[T]) Dispose() {
	b.Unbind()
	self := weak.Make(b)
	for _, m := range live(b.mirrors) {
		if m.kind == linkMirror && m.partner == self {
			m.kind = linkNone
			m.partner = weak.Pointer[Bindable[T]]{}
		}
	}
	b.mirrors = nil
	b.setListeners = nil
	b.changedListeners = nil
	b.getListeners = nil
}

// link returns the kind of b's own link, first dropping a link whose partner
// has been collected.
func (b *Bindable[T]) link() linkKind {
	if b.kind != linkNone && b.partner.Value() == nil {
		b.kind = linkNone
		b.partner = weak.Pointer[Bindable[T]]{}
	}
	return b.kind
}

// unlink drops b's own link from both ends.
func (b *Bindable[T]) unlink() {
	if b.kind == linkNone {
		return
	}
	if p := b.partner.Value(); p != nil {
		self := weak.Make(b)
		switch b.kind {
		case linkMirror:
			p.mirrors = without(p.mirrors, self)
		case linkPeer:
			p.peers = without(p.peers, self)
		}
	}
	b.kind = linkNone
	b.partner = weak.Pointer[Bindable[T]]{}
}

// OnSet registers fn to run whenever a value is stored in b.
// The returned function unregisters it.
func (b *Bindable[T]) OnSet(fn func(T)) func() {
	id := b.nextID()
	b.setListeners = append(b.setListeners, listener[func(T)]{id: id, fn: fn})
	return func() { b.setListeners = removeListener(b.setListeners, id) }
}

// OnChanged registers fn to run after every change of b's value, including
// in-place mutations of structured values.
func (b *Bindable[T]) OnChanged(fn func(T)) func() {
	id := b.nextID()
	b.changedListeners = append(b.changedListeners, listener[func(T)]{id: id, fn: fn})
	return func() { b.changedListeners = removeListener(b.changedListeners, id) }
}

// OnGet registers fn to run whenever b's value is read through Value.
func (b *Bindable[T]) OnGet(fn func()) func() {
	id := b.nextID()
	b.getListeners = append(b.getListeners, listener[func()]{id: id, fn: fn})
	return func() { b.getListeners = removeListener(b.getListeners, id) }
}

func (b *Bindable[T]) nextID() int {
	b.nextListenerID++
	return b.nextListenerID
}

func (b *Bindable[T]) String() string {
	return fmt.Sprintf("%v (%s)", b.value, b.Status())
}

// assign stores value, notifies, then forwards the write to every neighbour
// not yet visited in this pass.
func (b *Bindable[T]) assign(value T, p pass[T]) {
	p.visit(b)
	b.value = value
	for _, l := range b.setListeners {
		l.fn(value)
	}
	for _, l := range b.changedListeners {
		l.fn(value)
	}
	for _, n := range b.neighbours() {
		if p.seen(n) {
			continue
		}
		n.assign(value, p)
	}
}

// neighbours lists the cells a write at b flows to: its bidirectional
// partner, cells bidirectionally bound to it, and its mirrors. A mirror's
// master is upstream and never written back.
func (b *Bindable[T]) neighbours() []*Bindable[T] {
	var out []*Bindable[T]
	if b.link() == linkPeer {
		if p := b.partner.Value(); p != nil {
			out = append(out, p)
		}
	}
	b.peers = prune(b.peers)
	b.mirrors = prune(b.mirrors)
	out = append(out, live(b.peers)...)
	out = append(out, live(b.mirrors)...)
	return out
}

// pass is the visited set of one write.
type pass[T any] map[*Bindable[T]]struct{}

func (p pass[T]) visit(b *Bindable[T]) { p[b] = struct{}{} }

func (p pass[T]) seen(b *Bindable[T]) bool {
	_, ok := p[b]
	return ok
}

func live[T any](refs []weak.Pointer[Bindable[T]]) []*Bindable[T] {
	out := make([]*Bindable[T], 0, len(refs))
	for _, r := range refs {
		if v := r.Value(); v != nil {
			out = append(out, v)
		}
	}
	return out
}

func prune[T any](refs []weak.Pointer[Bindable[T]]) []weak.Pointer[Bindable[T]] {
	n := 0
	for _, r := range refs {
		if r.Value() != nil {
			refs[n] = r
			n++
		}
	}
	clear(refs[n:])
	return refs[:n]
}

func without[T any](refs []weak.Pointer[Bindable[T]], target weak.Pointer[Bindable[T]]) []weak.Pointer[Bindable[T]] {
	n := 0
	for _, r := range refs {
		if r != target {
			refs[n] = r
			n++
		}
	}
	clear(refs[n:])
	return refs[:n]
}

func removeListener[F any](ls []listener[F], id int) []listener[F] {
	for i, l := range ls {
		if l.id == id {
			return append(ls[:i:i], ls[i+1:]...)
		}
	}
	return ls
}
