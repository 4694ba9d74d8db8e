// Package synth builds the operator binding matrix for registered pattern
// types.
//
// For every concrete type the synthesizer enumerates the bindings where that
// type is the left operand, then mirrors the ones whose partner is a primitive
// stand-in. A binding never has two foreign operands: the type being
// processed is always on one side.
package synth

import (
	"fmt"

	"github.com/gnolang/recgen/internal/category"
	tt "github.com/gnolang/recgen/internal/types"
)

// Set is the binding matrix of one concrete type.
type Set struct {
	Type     tt.TypeRef
	Forward  []tt.Binding
	Mirrored []tt.Binding
}

// All returns forward bindings followed by mirrored ones.
func (s Set) All() []tt.Binding {
	out := make([]tt.Binding, 0, len(s.Forward)+len(s.Mirrored))
	out = append(out, s.Forward...)
	return append(out, s.Mirrored...)
}

type Synthesizer struct {
	reg *category.Registry
}

func New(reg *category.Registry) *Synthesizer {
	return &Synthesizer{reg: reg}
}

// Synthesize returns the bindings of the registered type name.
func (s *Synthesizer) Synthesize(name string) (Set, error) {
	local, ok := s.reg.Ref(name)
	if !ok || !local.Kind.IsConcrete() {
		return Set{}, fmt.Errorf("%w: %s is not registered", category.ErrMalformedRegistration, name)
	}

	forward, err := enumerate(s.reg, local)
	if err != nil {
		return Set{}, fmt.Errorf("synthesizing %s: %w", name, err)
	}
	mirrored, err := mirror(forward)
	if err != nil {
		return Set{}, fmt.Errorf("synthesizing %s: %w", name, err)
	}

	return Set{Type: local, Forward: forward, Mirrored: mirrored}, nil
}

// SynthesizeAll synthesizes every registered type in registration order.
// Any failure aborts the whole run.
func (s *Synthesizer) SynthesizeAll() ([]Set, error) {
	names := s.reg.Names()
	sets := make([]Set, 0, len(names))
	for _, name := range names {
		set, err := s.Synthesize(name)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// Flatten concatenates the bindings of sets in order.
func Flatten(sets []Set) []tt.Binding {
	var out []tt.Binding
	for _, set := range sets {
		out = append(out, set.All()...)
	}
	return out
}
