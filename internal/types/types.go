package types

import "fmt"

// Kind classifies every type that can appear on either side of a binding.
// The set is closed; adding a kind means updating the rule table.
type Kind int

const (
	KindInvalid Kind = iota
	KindAtom
	KindComponent
	KindChar
	KindStrView
	KindOwnedStr
	KindRec
	KindCh
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindAtom:      "atom",
	KindComponent: "component",
	KindChar:      "char",
	KindStrView:   "strview",
	KindOwnedStr:  "ownedstr",
	KindRec:       "rec",
	KindCh:        "ch",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if Kind(k) != KindInvalid && name == s {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

// IsConcrete reports whether k is a category a caller can register.
func (k Kind) IsConcrete() bool {
	return k == KindAtom || k == KindComponent
}

// IsPrimitive reports whether k is one of the fixed text stand-ins.
func (k Kind) IsPrimitive() bool {
	return k == KindChar || k == KindStrView || k == KindOwnedStr
}

// IsResult reports whether k is a composite result type.
func (k Kind) IsResult() bool {
	return k == KindRec || k == KindCh
}

// IsElement reports whether k has the Element capability.
func (k Kind) IsElement() bool {
	return k.IsConcrete() || k.IsPrimitive() || k.IsResult()
}

// Primitives lists the stand-ins in their canonical order.
var Primitives = []Kind{KindChar, KindStrView, KindOwnedStr}

// Results lists the composite result kinds in their canonical order.
var Results = []Kind{KindRec, KindCh}

// Operator is an infix operation a binding wires up.
type Operator int

const (
	OpConcatenate Operator = iota
	OpAlternate
	OpUnion
	OpEqualityTest
)

// Operators lists every operator in declaration order.
var Operators = []Operator{OpConcatenate, OpAlternate, OpUnion, OpEqualityTest}

func (op Operator) String() string {
	switch op {
	case OpConcatenate:
		return "concatenate"
	case OpAlternate:
		return "alternate"
	case OpUnion:
		return "union"
	case OpEqualityTest:
		return "equality"
	default:
		return fmt.Sprintf("Operator(%d)", int(op))
	}
}

// Symbol is the infix spelling used in human readable output.
func (op Operator) Symbol() string {
	switch op {
	case OpConcatenate:
		return "+"
	case OpAlternate, OpUnion:
		return "|"
	case OpEqualityTest:
		return "=="
	default:
		return "?"
	}
}

// Result is the type a binding produces.
type Result int

const (
	ResultNone Result = iota
	ResultRec
	ResultCh
	ResultBool
)

func (r Result) String() string {
	switch r {
	case ResultRec:
		return "rec"
	case ResultCh:
		return "ch"
	case ResultBool:
		return "bool"
	default:
		return "none"
	}
}

// Kind returns the composite kind produced, or KindInvalid for bool.
func (r Result) Kind() Kind {
	switch r {
	case ResultRec:
		return KindRec
	case ResultCh:
		return KindCh
	default:
		return KindInvalid
	}
}

// Side selects one operand of a binding.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// TypeRef names a type together with its kind.
type TypeRef struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

func (t TypeRef) String() string {
	return t.Name
}

// Fixed names of the primitive and result types.
var (
	Char     = TypeRef{Name: "char", Kind: KindChar}
	StrView  = TypeRef{Name: "strview", Kind: KindStrView}
	OwnedStr = TypeRef{Name: "ownedstr", Kind: KindOwnedStr}
	Rec      = TypeRef{Name: "Rec", Kind: KindRec}
	Ch       = TypeRef{Name: "Ch", Kind: KindCh}
)

// Builtin returns the fixed TypeRef for a primitive or result kind.
func Builtin(k Kind) (TypeRef, bool) {
	switch k {
	case KindChar:
		return Char, true
	case KindStrView:
		return StrView, true
	case KindOwnedStr:
		return OwnedStr, true
	case KindRec:
		return Rec, true
	case KindCh:
		return Ch, true
	default:
		return TypeRef{}, false
	}
}

// Binding is one resolved operator implementation.
type Binding struct {
	Op     Operator `json:"op"`
	Left   TypeRef  `json:"left"`
	Right  TypeRef  `json:"right"`
	Result Result   `json:"result"`
	// Call is the name of the semantic operation the binding routes to.
	Call string `json:"call"`
	// Self is the operand the semantic operation is invoked on.
	Self Side `json:"self"`
}

// Slot identifies the position a binding occupies in the matrix.
type Slot struct {
	Op    Operator
	Left  string
	Right string
}

func (b Binding) Slot() Slot {
	return Slot{Op: b.Op, Left: b.Left.Name, Right: b.Right.Name}
}

// Receiver returns the operand the semantic call is invoked on.
func (b Binding) Receiver() TypeRef {
	if b.Self == SideRight {
		return b.Right
	}
	return b.Left
}

// Argument returns the operand passed to the semantic call.
func (b Binding) Argument() TypeRef {
	if b.Self == SideRight {
		return b.Left
	}
	return b.Right
}

func (b Binding) String() string {
	return fmt.Sprintf("%s %s %s -> %s (%s)", b.Left, b.Op.Symbol(), b.Right, b.Result, b.Call)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (op Operator) MarshalText() ([]byte, error) { return []byte(op.String()), nil }
func (r Result) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
