package sigcell

import (
	"encoding/json"
	"errors"
)

// Handles serialize as their bare value: a struct holding signals marshals
// indistinguishably from one holding the values themselves. Decoding
// reconstructs a fresh cell, never the old subscriber list.

var ErrUnboundSignal = errors.New("sigcell: cannot unmarshal into an unbound signal handle")

func (s ReadonlySignal[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.UntrackedValue())
}

func (s WriteableSignal[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.UntrackedValue())
}

// UnmarshalJSON installs a fresh cell holding the decoded value. Runtime and
// ownership flavor carry over from the handle; subscribers do not. The
// handle must already be bound to a runtime, since a zero-value handle has
// nowhere to hang the new cell.
func (s *ReadonlySignal[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if s.rt == nil {
		return ErrUnboundSignal
	}
	cell := newCell(v)
	if s.kind == refPinned {
		s.rt.pin(cell)
	}
	s.cell = cell
	return nil
}

func (s *WriteableSignal[T]) UnmarshalJSON(data []byte) error {
	return s.ReadonlySignal.UnmarshalJSON(data)
}

// UnmarshalSignal decodes data into a fresh permanently-alive signal on rt.
// Decode errors come back unchanged from encoding/json.
func UnmarshalSignal[T any](rt *Runtime, data []byte) (WriteableSignal[T], error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return WriteableSignal[T]{}, err
	}
	return Signal(rt, v), nil
}
