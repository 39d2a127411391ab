package sigcell

import "slices"

// anyCell lets edge records and the pinned arena hold cells of any value
// type. Interface values compare by cell pointer, which is the identity the
// dependency sets key on.
type anyCell interface {
	subscribe(cb *callback)
	unsubscribe(cb *callback)
}

// refKind is the closed set of cell ownership flavors.
type refKind uint8

const (
	// refPinned cells sit in the runtime arena and are never reclaimed.
	refPinned refKind = iota
	// refShared cells live as long as a handle or subscription reaches
	// them.
	refShared
)

// cellRef is one endpoint of a dependency edge: which cell, held how.
type cellRef struct {
	kind refKind
	cell anyCell
}

// subscriberSet is an insertion-ordered set of callbacks keyed by handle
// identity. Insertion order is load-bearing: it decides notification order.
type subscriberSet struct {
	order []*callback
	index map[*callback]struct{}
}

// add inserts at the end; a callback that is already present stays where it
// was.
func (s *subscriberSet) add(cb *callback) {
	if s.index == nil {
		s.index = map[*callback]struct{}{}
	}
	if _, ok := s.index[cb]; ok {
		return
	}
	s.index[cb] = struct{}{}
	s.order = append(s.order, cb)
}

// remove of an absent callback is a no-op.
func (s *subscriberSet) remove(cb *callback) {
	if _, ok := s.index[cb]; !ok {
		return
	}
	delete(s.index, cb)
	i := slices.Index(s.order, cb)
	s.order = slices.Delete(s.order, i, i+1)
}

func (s *subscriberSet) snapshot() []*callback {
	return slices.Clone(s.order)
}

func (s *subscriberSet) size() int {
	return len(s.order)
}

// signalCell is the storage behind every handle: the current value and the
// ordered set of subscribed callbacks.
type signalCell[T any] struct {
	value T
	subs  subscriberSet
}

func newCell[T any](value T) *signalCell[T] {
	return &signalCell[T]{value: value}
}

// replace installs a new value. It does NOT notify subscribers; that is a
// separate step so several cells can change before one propagation pass.
func (c *signalCell[T]) replace(v T) {
	c.value = v
}

func (c *signalCell[T]) subscribe(cb *callback) {
	c.subs.add(cb)
}

func (c *signalCell[T]) unsubscribe(cb *callback) {
	c.subs.remove(cb)
}

// trigger re-invokes every live subscriber in reverse insertion order.
// Computations created during another computation's run subscribe before
// their creator does, so reverse order fires the outer computation first and
// lets it dispose stale inner ones before they would run.
//
// The list is snapshotted up front: callbacks are free to subscribe and
// unsubscribe mid-pass without corrupting the iteration or joining it late.
func (c *signalCell[T]) trigger() {
	subs := c.subs.snapshot()
	for i := len(subs) - 1; i >= 0; i-- {
		cb := subs[i]
		rerun, alive := cb.resolve()
		if !alive {
			// Disposed between subscription and dispatch. Normal for
			// nested computations, skip silently.
			continue
		}
		if !cb.tryStart() {
			// Already executing. Dropped, not queued.
			continue
		}
		rerun()
		cb.finish()
	}
}

// ReadonlySignal is the read capability over a cell: it fetches the current
// value and registers the cell as a dependency of the running computation.
// It never mutates.
type ReadonlySignal[T any] struct {
	rt   *Runtime
	kind refKind
	cell *signalCell[T]
}

// Value returns the current value. Inside a running computation the cell is
// first recorded in that computation's dependency set; with no computation
// running (teardown reads included) registration is deliberately skipped.
func (s ReadonlySignal[T]) Value() T {
	if comp, ok := s.rt.currentListener(); ok {
		comp.addDependency(cellRef{kind: s.kind, cell: s.cell})
	}
	return s.cell.value
}

// UntrackedValue returns the current value without ever registering a
// dependency, whether or not a computation is running.
func (s ReadonlySignal[T]) UntrackedValue() T {
	return s.cell.value
}

// WriteableSignal adds the mutation half of the protocol on top of the read
// capability.
type WriteableSignal[T any] struct {
	ReadonlySignal[T]
}

// SetValue replaces the value and notifies all subscribers. There is no
// value-equality short-circuit: setting the same value again still fires.
func (s WriteableSignal[T]) SetValue(v T) {
	s.cell.replace(v)
	s.cell.trigger()
}

// ReplaceValue installs a new value without notifying anyone. Pair with
// TriggerSubscribers to coalesce several related replacements into a single
// propagation pass.
func (s WriteableSignal[T]) ReplaceValue(v T) {
	s.cell.replace(v)
}

// TriggerSubscribers notifies without replacing the value, for
// inner-mutability cases where the value changed behind the handle's back.
func (s WriteableSignal[T]) TriggerSubscribers() {
	s.cell.trigger()
}

// Handle returns the read-only view over the same cell.
func (s WriteableSignal[T]) Handle() ReadonlySignal[T] {
	return s.ReadonlySignal
}

// Signal creates a permanently-alive signal: the runtime pins the cell so
// state meant to outlive every observer never goes away. Handles are plain
// values and safe to copy.
func Signal[T any](rt *Runtime, initial T) WriteableSignal[T] {
	cell := newCell(initial)
	rt.pin(cell)
	return WriteableSignal[T]{ReadonlySignal[T]{rt: rt, kind: refPinned, cell: cell}}
}

// SharedSignal creates a signal whose cell lives exactly as long as some
// handle or subscription still reaches it. Same read/write contract as
// Signal; only lifetime differs.
func SharedSignal[T any](rt *Runtime, initial T) WriteableSignal[T] {
	cell := newCell(initial)
	return WriteableSignal[T]{ReadonlySignal[T]{rt: rt, kind: refShared, cell: cell}}
}
