// Package rules holds the promotion table that decides which operator
// pairings are offered and what they produce.
package rules

import (
	tt "github.com/gnolang/recgen/internal/types"
)

// Class is the capability an operand must have to take part in a row.
type Class int

const (
	ClassElement Class = iota
	ClassAtom
)

func (c Class) String() string {
	if c == ClassAtom {
		return "atom"
	}
	return "element"
}

// Row is one line of the promotion table.
type Row struct {
	Op     tt.Operator
	Left   Class
	Right  Class
	Result tt.Result
	// Call is the semantic operation the operator routes to.
	Call string
	// CharAsAtom admits char where the row requires an atom.
	CharAsAtom bool
}

// Semantic call names.
const (
	CallConcatenate = "concatenate"
	CallAlternate   = "alternate"
	CallUnion       = "union"
	CallIsEqual     = "is_equal"
)

var table = [...]Row{
	tt.OpConcatenate:  {Op: tt.OpConcatenate, Left: ClassElement, Right: ClassElement, Result: tt.ResultRec, Call: CallConcatenate},
	tt.OpAlternate:    {Op: tt.OpAlternate, Left: ClassElement, Right: ClassElement, Result: tt.ResultRec, Call: CallAlternate},
	tt.OpUnion:        {Op: tt.OpUnion, Left: ClassAtom, Right: ClassAtom, Result: tt.ResultCh, Call: CallUnion, CharAsAtom: true},
	tt.OpEqualityTest: {Op: tt.OpEqualityTest, Left: ClassElement, Right: ClassElement, Result: tt.ResultBool, Call: CallIsEqual},
}

// Rows returns a copy of the table in operator order.
func Rows() []Row {
	rows := make([]Row, len(table))
	copy(rows, table[:])
	return rows
}

func row(op tt.Operator) (Row, bool) {
	if op < 0 || int(op) >= len(table) {
		return Row{}, false
	}
	return table[op], true
}

// Satisfies reports whether kind k may stand in an operand of class c for row r.
func (r Row) Satisfies(c Class, k tt.Kind) bool {
	switch c {
	case ClassAtom:
		return k == tt.KindAtom || (r.CharAsAtom && k == tt.KindChar)
	default:
		return k.IsElement()
	}
}

// Lookup resolves the result of applying op to operands of kinds l and r.
// The second return value is false when the pairing is not offered.
func Lookup(op tt.Operator, l, r tt.Kind) (tt.Result, bool) {
	rw, ok := row(op)
	if !ok {
		return tt.ResultNone, false
	}
	if !rw.Satisfies(rw.Left, l) || !rw.Satisfies(rw.Right, r) {
		return tt.ResultNone, false
	}
	return rw.Result, true
}

// AtomFor reports whether kind k stands where op requires an atom.
func AtomFor(op tt.Operator, k tt.Kind) bool {
	rw, ok := row(op)
	return ok && rw.Satisfies(ClassAtom, k)
}

// Call returns the semantic operation name for op.
func Call(op tt.Operator) string {
	rw, ok := row(op)
	if !ok {
		return ""
	}
	return rw.Call
}

// Commutative reports whether op accepts the same class on both sides, so a
// binding for (a, b) can be mirrored to (b, a) with the same result.
func Commutative(op tt.Operator) bool {
	rw, ok := row(op)
	return ok && rw.Left == rw.Right
}
