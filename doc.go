// Package sigcell is a fine-grained reactive signal graph: mutable cells
// that notify the computations depending on them when written, with
// dependency edges discovered at read time instead of declared up front.
//
// Everything hangs off an explicit *Runtime. Cells come in two ownership
// flavors behind one protocol: Signal pins its cell in the runtime forever,
// SharedSignal leaves the cell's lifetime to whoever still holds a handle or
// subscription. Effect and Memo build the re-runnable computations that
// consume cells; propagation is synchronous, depth-first and re-entrant, with
// no scheduler or task queue.
//
// The graph is confined to a single goroutine. Re-entrancy (a callback
// writing cells, creating effects, or unsubscribing mid-pass) is part of the
// design; concurrent use from multiple goroutines is not.
package sigcell
