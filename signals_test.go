package sigcell_test

import (
	"testing"

	"github.com/delaneyj/sigcell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalBasics(t *testing.T) {
	rt := sigcell.NewRuntime()
	state := sigcell.Signal(rt, 0)
	assert.Equal(t, 0, state.Value())

	state.SetValue(1)
	assert.Equal(t, 1, state.Value())
}

func TestLastWriteWins(t *testing.T) {
	rt := sigcell.NewRuntime()
	state := sigcell.Signal(rt, 0)
	for _, v := range []int{3, 1, 4, 1, 5, 9} {
		state.SetValue(v)
	}
	assert.Equal(t, 9, state.UntrackedValue())
}

func TestReadonlyHandle(t *testing.T) {
	rt := sigcell.NewRuntime()
	state := sigcell.Signal(rt, 0)
	readonly := state.Handle()

	assert.Equal(t, 0, readonly.Value())
	state.SetValue(1)
	assert.Equal(t, 1, readonly.Value())
}

func TestSharedSignalSameContract(t *testing.T) {
	rt := sigcell.NewRuntime()
	state := sigcell.SharedSignal(rt, "a")

	callCount := 0
	last := ""
	sigcell.Effect(rt, func() {
		last = state.Value()
		callCount++
	})
	require.Equal(t, 1, callCount)

	state.SetValue("b")
	assert.Equal(t, 2, callCount)
	assert.Equal(t, "b", last)
}

// Two observers on one cell: a same-value set still notifies both, and the
// second-registered observer fires first.
func TestSetAlwaysNotifiesInReverseOrder(t *testing.T) {
	rt := sigcell.NewRuntime()
	x := sigcell.Signal(rt, 0)

	var order []string
	seenA, seenB := -1, -1
	sigcell.Effect(rt, func() {
		seenA = x.Value()
		order = append(order, "a")
	})
	sigcell.Effect(rt, func() {
		seenB = x.Value()
		order = append(order, "b")
	})
	assert.Equal(t, 0, seenA)
	assert.Equal(t, 0, seenB)

	order = nil
	x.SetValue(5)
	require.Equal(t, []string{"b", "a"}, order)
	assert.Equal(t, 5, seenA)
	assert.Equal(t, 5, seenB)

	// Same value again: no equality short-circuit, both fire again. Each
	// re-run re-subscribes at the back of the list, so the order between the
	// two flips from pass to pass.
	order = nil
	x.SetValue(5)
	assert.ElementsMatch(t, []string{"a", "b"}, order)
}

// ReplaceValue is the silent half of SetValue: several cells can change
// before one coalesced TriggerSubscribers pass.
func TestReplaceThenTriggerCoalesces(t *testing.T) {
	rt := sigcell.NewRuntime()
	first := sigcell.Signal(rt, "")
	last := sigcell.Signal(rt, "")

	callCount := 0
	full := ""
	sigcell.Effect(rt, func() {
		full = first.Value() + " " + last.Value()
		callCount++
	})
	require.Equal(t, 1, callCount)

	first.ReplaceValue("Ada")
	last.ReplaceValue("Lovelace")
	assert.Equal(t, 1, callCount)

	first.TriggerSubscribers()
	assert.Equal(t, 2, callCount)
	assert.Equal(t, "Ada Lovelace", full)
}

// Forced notification without a value change, for inner mutability.
func TestTriggerSubscribersWithoutWrite(t *testing.T) {
	rt := sigcell.NewRuntime()
	items := sigcell.Signal(rt, &[]int{})

	callCount := 0
	sigcell.Effect(rt, func() {
		items.Value()
		callCount++
	})
	require.Equal(t, 1, callCount)

	*items.UntrackedValue() = append(*items.UntrackedValue(), 42)
	items.TriggerSubscribers()
	assert.Equal(t, 2, callCount)
	assert.Equal(t, []int{42}, *items.UntrackedValue())
}

func TestUntrackedReadCreatesNoSubscription(t *testing.T) {
	rt := sigcell.NewRuntime()
	tracked := sigcell.Signal(rt, 1)
	untracked := sigcell.Signal(rt, 10)

	callCount := 0
	sum := 0
	sigcell.Effect(rt, func() {
		sum = tracked.Value() + untracked.UntrackedValue()
		callCount++
	})
	require.Equal(t, 1, callCount)
	require.Equal(t, 11, sum)

	untracked.SetValue(20)
	assert.Equal(t, 1, callCount)

	tracked.SetValue(2)
	assert.Equal(t, 2, callCount)
	assert.Equal(t, 22, sum)
}

func TestValueCopiesAreStable(t *testing.T) {
	rt := sigcell.NewRuntime()
	state := sigcell.Signal(rt, 7)

	snapshot := state.UntrackedValue()
	state.SetValue(8)
	assert.Equal(t, 7, snapshot)
	assert.Equal(t, 8, state.UntrackedValue())
}
