package sigcell

import "github.com/cespare/xxhash/v2"

// Context carries a scoped value down the computation hierarchy. Writes
// attach to the computation performing them; reads walk up through the
// ancestors to the nearest value and fall back to the default.
type Context[T any] struct {
	rt           *Runtime
	id           uint64
	defaultValue T
}

// CreateContext derives a stable id from name, so independently constructed
// contexts with the same name address the same slot.
func CreateContext[T any](rt *Runtime, name string, defaultValue T) *Context[T] {
	return &Context[T]{
		rt:           rt,
		id:           xxhash.Sum64String(name),
		defaultValue: defaultValue,
	}
}

func (c *Context[T]) Read() T {
	for comp := c.rt.currentObserver(); comp != nil; comp = comp.parent {
		if x, ok := comp.contexts[c.id]; ok {
			t, ok := x.(T)
			if !ok {
				panic("sigcell: context value has wrong type")
			}
			return t
		}
	}
	return c.defaultValue
}

// Write stores the value on the current computation. Outside any computation
// there is nowhere to scope it, so the write is dropped.
func (c *Context[T]) Write(value T) {
	if comp := c.rt.currentObserver(); comp != nil {
		comp.contexts[c.id] = value
	}
}
