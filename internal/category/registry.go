// Package category records which concrete types belong to which pattern
// category and answers capability queries about them.
package category

import (
	"errors"
	"fmt"

	"github.com/gnolang/recgen/internal/rules"
	tt "github.com/gnolang/recgen/internal/types"
)

// ErrMalformedRegistration is returned when a type is not registered with
// exactly one concrete category.
var ErrMalformedRegistration = errors.New("malformed registration")

// Registry is append-only. All registrations of a generation run must
// happen before the first enumeration that depends on them.
type Registry struct {
	kinds      map[string]tt.Kind
	order      []string
	atoms      []string
	components []string
}

func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]tt.Kind)}
}

// Register records name under the single concrete category in cats.
func (r *Registry) Register(name string, cats ...tt.Kind) error {
	if name == "" {
		return fmt.Errorf("%w: empty type name", ErrMalformedRegistration)
	}
	if _, builtin := builtinByName(name); builtin {
		return fmt.Errorf("%w: %s is a builtin type", ErrMalformedRegistration, name)
	}
	if _, exists := r.kinds[name]; exists {
		return fmt.Errorf("%w: %s registered twice", ErrMalformedRegistration, name)
	}

	switch len(cats) {
	case 0:
		return fmt.Errorf("%w: %s has no category", ErrMalformedRegistration, name)
	case 1:
	default:
		return fmt.Errorf("%w: %s has %d categories", ErrMalformedRegistration, name, len(cats))
	}

	cat := cats[0]
	switch cat {
	case tt.KindAtom:
		r.atoms = append(r.atoms, name)
	case tt.KindComponent:
		r.components = append(r.components, name)
	default:
		return fmt.Errorf("%w: %s cannot be registered as %s", ErrMalformedRegistration, name, cat)
	}
	r.kinds[name] = cat
	r.order = append(r.order, name)
	return nil
}

// Kind returns the kind of a registered or builtin type.
func (r *Registry) Kind(name string) (tt.Kind, bool) {
	if ref, ok := builtinByName(name); ok {
		return ref.Kind, true
	}
	k, ok := r.kinds[name]
	return k, ok
}

// Ref resolves name to a TypeRef.
func (r *Registry) Ref(name string) (tt.TypeRef, bool) {
	k, ok := r.Kind(name)
	if !ok {
		return tt.TypeRef{}, false
	}
	return tt.TypeRef{Name: name, Kind: k}, true
}

// IsElement reports whether name has the Element capability.
func (r *Registry) IsElement(name string) bool {
	k, ok := r.Kind(name)
	return ok && k.IsElement()
}

// IsAtom reports whether name can stand where op requires an atom.
// char qualifies only for union.
func (r *Registry) IsAtom(name string, op tt.Operator) bool {
	k, ok := r.Kind(name)
	return ok && rules.AtomFor(op, k)
}

// Atoms returns the atom-category names in registration order.
func (r *Registry) Atoms() []string {
	return append([]string(nil), r.atoms...)
}

// Components returns the component-category names in registration order.
func (r *Registry) Components() []string {
	return append([]string(nil), r.components...)
}

// Names returns every registered concrete type in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered concrete types.
func (r *Registry) Len() int {
	return len(r.kinds)
}

func builtinByName(name string) (tt.TypeRef, bool) {
	for _, k := range append(append([]tt.Kind(nil), tt.Primitives...), tt.Results...) {
		ref, _ := tt.Builtin(k)
		if ref.Name == name {
			return ref, true
		}
	}
	return tt.TypeRef{}, false
}
