package synth

import (
	"github.com/gnolang/recgen/internal/category"
	"github.com/gnolang/recgen/internal/rules"
	tt "github.com/gnolang/recgen/internal/types"
)

// partnerSet lists the right-hand types op is offered against.
type partnerSet func(reg *category.Registry, op tt.Operator) []tt.TypeRef

// exposure pairs an operator with the partners it is offered against.
type exposure struct {
	op       tt.Operator
	partners partnerSet
}

var componentExposures = []exposure{
	{op: tt.OpConcatenate, partners: elementPartners},
	{op: tt.OpAlternate, partners: elementPartners},
	{op: tt.OpEqualityTest, partners: elementPartners},
}

// Atoms expose everything a component does, the narrowing union, and
// alternate against the non-atom elements union cannot reach.
var atomExposures = append(append([]exposure(nil), componentExposures...),
	exposure{op: tt.OpUnion, partners: atomPartners},
	exposure{op: tt.OpAlternate, partners: nonAtomPartners},
)

func exposuresFor(k tt.Kind) []exposure {
	switch k {
	case tt.KindAtom:
		return atomExposures
	case tt.KindComponent:
		return componentExposures
	default:
		return nil
	}
}

func refs(reg *category.Registry, names []string) []tt.TypeRef {
	out := make([]tt.TypeRef, 0, len(names))
	for _, name := range names {
		if ref, ok := reg.Ref(name); ok {
			out = append(out, ref)
		}
	}
	return out
}

func builtins(kinds ...tt.Kind) []tt.TypeRef {
	out := make([]tt.TypeRef, 0, len(kinds))
	for _, k := range kinds {
		ref, _ := tt.Builtin(k)
		out = append(out, ref)
	}
	return out
}

// candidates is every known type in partner order: atoms, components,
// primitives, results.
func candidates(reg *category.Registry) []tt.TypeRef {
	out := refs(reg, reg.Atoms())
	out = append(out, refs(reg, reg.Components())...)
	out = append(out, builtins(tt.Primitives...)...)
	return append(out, builtins(tt.Results...)...)
}

func filter(in []tt.TypeRef, keep func(tt.TypeRef) bool) []tt.TypeRef {
	out := in[:0]
	for _, ref := range in {
		if keep(ref) {
			out = append(out, ref)
		}
	}
	return out
}

func elementPartners(reg *category.Registry, _ tt.Operator) []tt.TypeRef {
	return filter(candidates(reg), func(ref tt.TypeRef) bool {
		return reg.IsElement(ref.Name)
	})
}

func atomPartners(reg *category.Registry, op tt.Operator) []tt.TypeRef {
	return filter(candidates(reg), func(ref tt.TypeRef) bool {
		return reg.IsAtom(ref.Name, op)
	})
}

func nonAtomPartners(*category.Registry, tt.Operator) []tt.TypeRef {
	return builtins(tt.KindRec, tt.KindStrView, tt.KindOwnedStr)
}

// enumerate produces the bindings where local is the left operand.
func enumerate(reg *category.Registry, local tt.TypeRef) ([]tt.Binding, error) {
	idx := newSlotIndex()
	var out []tt.Binding
	for _, ex := range exposuresFor(local.Kind) {
		for _, partner := range ex.partners(reg, ex.op) {
			result, ok := rules.Lookup(ex.op, local.Kind, partner.Kind)
			if !ok {
				continue
			}
			b := tt.Binding{
				Op:     ex.op,
				Left:   local,
				Right:  partner,
				Result: result,
				Call:   rules.Call(ex.op),
				Self:   tt.SideLeft,
			}
			added, err := idx.add(b)
			if err != nil {
				return nil, err
			}
			if added {
				out = append(out, b)
			}
		}
	}
	return out, nil
}
