package sigcell

type callbackState uint8

const (
	stateIdle callbackState = iota
	stateRunning
	stateDisposed
)

// callback is the identity-comparable handle a cell's subscriber list holds
// for a computation. The pointer itself is the identity; the computation
// behind it may have been disposed between subscription and notification,
// which resolution reports explicitly instead of failing.
type callback struct {
	// Back reference only: the graph looks through it, never owns through
	// it.
	comp *computation
}

// resolve reports whether the owning computation is still alive and, if so,
// hands back its re-run entry point.
func (cb *callback) resolve() (rerun func(), alive bool) {
	if cb.comp == nil || cb.comp.state == stateDisposed {
		return nil, false
	}
	return cb.comp.runBody, true
}

// tryStart flips Idle -> Running. A false return means the callback is
// already executing (or gone) and this notification must be dropped; that
// drop is what caps self-referential feedback loops.
func (cb *callback) tryStart() bool {
	if cb.comp.state != stateIdle {
		return false
	}
	cb.comp.state = stateRunning
	return true
}

// finish flips Running -> Idle. Disposal during the run wins: Disposed is
// terminal.
func (cb *callback) finish() {
	if cb.comp.state == stateRunning {
		cb.comp.state = stateIdle
	}
}
