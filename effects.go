package sigcell

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// computation is a re-runnable tracked closure: an effect body, the producer
// behind a memo, or the inert scope of a root. It owns the edges discovered
// during its last run and the child computations that run created.
type computation struct {
	rt *Runtime

	// nil for roots, which never re-run.
	fn      func()
	tracked bool
	state   callbackState

	// The handle cells hold for this computation; its pointer is the
	// subscription identity.
	cb *callback

	// Edges discovered during the last run. A set: reading the same cell
	// five times in one run is one edge. Retired wholesale before the next
	// run so stale edges never linger.
	dependencies mapset.Set[cellRef]

	parent   *computation
	children []*computation

	cleanups []func()
	contexts map[uint64]any
}

func newComputation(rt *Runtime, fn func(), tracked bool) *computation {
	c := &computation{
		rt:           rt,
		fn:           fn,
		tracked:      tracked,
		dependencies: mapset.NewThreadUnsafeSet[cellRef](),
		contexts:     map[uint64]any{},
	}
	c.cb = &callback{comp: c}
	return c
}

// link attaches the computation to the one currently running, so the parent
// disposes it before re-running. Roots skip this: they outlive their creator
// on purpose.
func (c *computation) link() {
	if parent := c.rt.currentObserver(); parent != nil {
		c.parent = parent
		parent.children = append(parent.children, c)
	}
}

func (c *computation) addDependency(ref cellRef) {
	c.dependencies.Add(ref)
}

// runBody retires the previous run (children, cleanups, edges), executes the
// closure with this computation on the listener stack, then subscribes the
// callback to every cell the closure read. Subscribing after the run — while
// inner computations subscribed during it — is what makes reverse
// notification order mean outer-before-inner.
func (c *computation) runBody() {
	c.retire()

	leave := c.rt.enter(c, c.tracked)
	func() {
		defer leave()
		if c.fn != nil {
			c.fn()
		}
	}()

	for _, ref := range c.dependencies.ToSlice() {
		ref.cell.subscribe(c.cb)
	}
}

// retire undoes everything the last run built up: nested computations are
// disposed innermost-last, cleanups fire, and every dependency edge is
// removed from its cell.
func (c *computation) retire() {
	children := c.children
	c.children = nil
	for _, child := range children {
		child.dispose()
	}

	cleanups := c.cleanups
	c.cleanups = nil
	for _, cleanup := range cleanups {
		cleanup()
	}

	for _, ref := range c.dependencies.ToSlice() {
		ref.cell.unsubscribe(c.cb)
	}
	c.dependencies.Clear()

	clear(c.contexts)
}

// dispose retires the computation and marks it Disposed, which is terminal:
// any notification still in flight resolves it as gone and skips it.
// Disposing twice is a no-op.
func (c *computation) dispose() {
	if c.state == stateDisposed {
		return
	}
	c.retire()
	c.state = stateDisposed

	if c.parent != nil {
		if i := slices.Index(c.parent.children, c); i >= 0 {
			c.parent.children = slices.Delete(c.parent.children, i, i+1)
		}
		c.parent = nil
	}
}

// Effect runs fn immediately and re-runs it whenever a cell it read during
// its latest run is triggered. Each re-run rebuilds the dependency set from
// scratch, so conditional reads drop edges that are no longer taken.
//
// Effects created inside another computation are disposed when that
// computation re-runs or is disposed. The returned stop tears the effect
// down by hand; after it, notifications resolve the effect as gone and skip
// it silently.
func Effect(rt *Runtime, fn func()) (stop func()) {
	c := newComputation(rt, fn, true)
	c.link()
	if c.cb.tryStart() {
		c.runBody()
		c.cb.finish()
	}
	return c.dispose
}

// Memo runs fn in a computation that writes its result into an internal
// shared cell and returns the cell's read handle. Downstream computations
// depend on the cell, not on fn's own inputs, so they re-run only when the
// memo actually produces.
func Memo[T any](rt *Runtime, fn func() T) ReadonlySignal[T] {
	var out WriteableSignal[T]
	bound := false
	Effect(rt, func() {
		v := fn()
		if !bound {
			out = SharedSignal(rt, v)
			bound = true
		} else {
			out.SetValue(v)
		}
	})
	return out.Handle()
}

// Root runs fn inside an untracked observer scope. Reads register nothing,
// but cleanups, contexts and child computations attach to the scope; fn
// receives the dispose that tears all of it down. Roots are never re-run,
// never auto-disposed, and must be disposed manually.
func Root(rt *Runtime, fn func(dispose func())) {
	c := newComputation(rt, nil, false)
	leave := rt.enter(c, false)
	defer leave()
	fn(c.dispose)
}

// OnCleanup registers fn on the current computation: it runs before that
// computation's next re-run and at disposal. Outside any computation it is a
// no-op.
func OnCleanup(rt *Runtime, fn func()) {
	if c := rt.currentObserver(); c != nil {
		c.cleanups = append(c.cleanups, fn)
	}
}

// Untrack runs fn with dependency registration paused. The current
// computation stays current — cleanups and context writes still attach to it
// — but reads inside behave like UntrackedValue.
func Untrack[T any](rt *Runtime, fn func() T) T {
	rt.PauseTracking()
	defer rt.ResumeTracking()
	return fn()
}
