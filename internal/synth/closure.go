package synth

import (
	"errors"
	"fmt"

	"github.com/gnolang/recgen/internal/rules"
	tt "github.com/gnolang/recgen/internal/types"
)

// ErrBindingCollision is returned when two bindings claim the same
// (operator, left, right) slot with different results.
var ErrBindingCollision = errors.New("binding collision")

type slotIndex map[tt.Slot]tt.Binding

func newSlotIndex() slotIndex {
	return make(slotIndex)
}

// add records b. It reports false if an identical binding already holds the
// slot and fails if a different one does.
func (idx slotIndex) add(b tt.Binding) (bool, error) {
	prev, exists := idx[b.Slot()]
	if !exists {
		idx[b.Slot()] = b
		return true, nil
	}
	if prev.Result != b.Result || prev.Call != b.Call {
		return false, fmt.Errorf("%w: %s %s %s yields both %s and %s",
			ErrBindingCollision, b.Left, b.Op, b.Right, prev.Result, b.Result)
	}
	return false, nil
}

// mirror reverses every binding whose right operand is a primitive. Bindings
// against registered types are left alone; those types mirror them when
// their own pass runs.
func mirror(forward []tt.Binding) ([]tt.Binding, error) {
	idx := newSlotIndex()
	for _, b := range forward {
		if _, err := idx.add(b); err != nil {
			return nil, err
		}
	}

	var out []tt.Binding
	for _, b := range forward {
		if !b.Right.Kind.IsPrimitive() || !rules.Commutative(b.Op) {
			continue
		}
		m := tt.Binding{
			Op:     b.Op,
			Left:   b.Right,
			Right:  b.Left,
			Result: b.Result,
			Call:   b.Call,
			Self:   tt.SideLeft,
		}
		// the local type stays the receiver so equality is the same call
		// in both orders
		if b.Op == tt.OpEqualityTest {
			m.Self = tt.SideRight
		}
		added, err := idx.add(m)
		if err != nil {
			return nil, err
		}
		if added {
			out = append(out, m)
		}
	}
	return out, nil
}
