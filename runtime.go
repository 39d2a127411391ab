package sigcell

// Runtime owns the state shared by every cell and computation created
// against it: the stack of currently running computations, the tracking
// pause stack, and the arena that pins permanently-alive cells.
type Runtime struct {
	// Innermost running computation last. Reads register against the top
	// entry only.
	listeners []*computation

	// Whether reads currently register dependencies. Saved and restored
	// around every computation run and every pause section.
	tracking bool

	// Saved tracking flags for PauseTracking/ResumeTracking pairs.
	pauseStack []bool

	// Cells created with Signal, kept reachable for the lifetime of the
	// runtime.
	pinned []anyCell
}

func NewRuntime() *Runtime {
	return &Runtime{tracking: true}
}

// PauseTracking stops reads from registering dependencies until the matching
// ResumeTracking. The listener stack is untouched, so cleanups and context
// writes still see the current computation.
func (rt *Runtime) PauseTracking() {
	rt.pauseStack = append(rt.pauseStack, rt.tracking)
	rt.tracking = false
}

func (rt *Runtime) ResumeTracking() {
	lastIdx := len(rt.pauseStack) - 1
	rt.tracking = rt.pauseStack[lastIdx]
	rt.pauseStack = rt.pauseStack[:lastIdx]
}

// ListenerDepth reports how many computations are on the stack right now.
// At program teardown it must be zero; anything else means a computation
// leaked mid-run.
func (rt *Runtime) ListenerDepth() int {
	return len(rt.listeners)
}

// enter pushes comp onto the listener stack and switches the tracking flag,
// returning the func that undoes both. Callers defer it so a panicking
// computation body still restores the stack.
func (rt *Runtime) enter(comp *computation, tracking bool) (leave func()) {
	prevTracking := rt.tracking
	rt.listeners = append(rt.listeners, comp)
	rt.tracking = tracking
	return func() {
		rt.listeners = rt.listeners[:len(rt.listeners)-1]
		rt.tracking = prevTracking
	}
}

// currentListener returns the computation that reads should register
// against; ok is false when nothing is running or tracking is paused.
//
// A disposed computation still on the stack means the caller disposed it
// while it was actively running. Continuing would corrupt the graph, so that
// is fatal rather than recoverable.
func (rt *Runtime) currentListener() (comp *computation, ok bool) {
	if !rt.tracking || len(rt.listeners) == 0 {
		return nil, false
	}
	top := rt.listeners[len(rt.listeners)-1]
	if top.state == stateDisposed {
		panic("sigcell: computation disposed while still on the listener stack")
	}
	return top, true
}

// currentObserver is the innermost computation regardless of the tracking
// flag. Cleanups, contexts and child linking attach here; dependency
// registration does not.
func (rt *Runtime) currentObserver() *computation {
	if len(rt.listeners) == 0 {
		return nil
	}
	return rt.listeners[len(rt.listeners)-1]
}

func (rt *Runtime) pin(c anyCell) {
	rt.pinned = append(rt.pinned, c)
}
