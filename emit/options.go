package emit

import (
	"fmt"
	"maps"
	"slices"

	"github.com/gnolang/recgen/internal/rules"
	tt "github.com/gnolang/recgen/internal/types"
)

// Runtime is the package that implements the pattern semantics.
type Runtime struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
}

// Primitive describes how a text stand-in is spelled in Go.
type Primitive struct {
	// Type is the Go type of the operand.
	Type string `yaml:"type"`
	// Lift is the runtime function turning the operand into an element.
	Lift string `yaml:"lift"`
	// Suffix names the operand in generated identifiers.
	Suffix string `yaml:"suffix"`
}

// Methods are the identifier prefixes of generated operators.
type Methods struct {
	Concatenate  string `yaml:"concatenate"`
	Alternate    string `yaml:"alternate"`
	Union        string `yaml:"union"`
	EqualityTest string `yaml:"equality"`
}

// Calls are the Go names of the semantic operations.
type Calls struct {
	Concatenate string `yaml:"concatenate"`
	Alternate   string `yaml:"alternate"`
	Union       string `yaml:"union"`
	IsEqual     string `yaml:"is_equal"`
}

// Options control Go rendering.
type Options struct {
	Runtime  Runtime   `yaml:"runtime"`
	Char     Primitive `yaml:"char"`
	StrView  Primitive `yaml:"strview"`
	OwnedStr Primitive `yaml:"ownedstr"`
	Rec      string    `yaml:"rec"`
	Ch       string    `yaml:"ch"`
	Methods  Methods   `yaml:"methods"`
	Calls    Calls     `yaml:"calls"`
}

func DefaultOptions() Options {
	return Options{
		Runtime:  Runtime{Path: "github.com/gnolang/rec", Name: "rec"},
		Char:     Primitive{Type: "rune", Lift: "Rune", Suffix: "Rune"},
		StrView:  Primitive{Type: "string", Lift: "Str", Suffix: "Str"},
		OwnedStr: Primitive{Type: "[]byte", Lift: "Bytes", Suffix: "Bytes"},
		Rec:      "Rec",
		Ch:       "Ch",
		Methods: Methods{
			Concatenate:  "Add",
			Alternate:    "Or",
			Union:        "Union",
			EqualityTest: "Equal",
		},
		Calls: Calls{
			Concatenate: "Concatenate",
			Alternate:   "Alternate",
			Union:       "Union",
			IsEqual:     "IsEqual",
		},
	}
}

// Validate reports the first empty field.
func (o Options) Validate() error {
	required := map[string]string{
		"runtime.path":        o.Runtime.Path,
		"runtime.name":        o.Runtime.Name,
		"rec":                 o.Rec,
		"ch":                  o.Ch,
		"methods.concatenate": o.Methods.Concatenate,
		"methods.alternate":   o.Methods.Alternate,
		"methods.union":       o.Methods.Union,
		"methods.equality":    o.Methods.EqualityTest,
		"calls.concatenate":   o.Calls.Concatenate,
		"calls.alternate":     o.Calls.Alternate,
		"calls.union":         o.Calls.Union,
		"calls.is_equal":      o.Calls.IsEqual,
	}
	for _, k := range tt.Primitives {
		p := o.primitive(k)
		required[k.String()+".type"] = p.Type
		required[k.String()+".lift"] = p.Lift
		required[k.String()+".suffix"] = p.Suffix
	}
	for _, key := range slices.Sorted(maps.Keys(required)) {
		if required[key] == "" {
			return fmt.Errorf("option %s is empty", key)
		}
	}
	return nil
}

func (o Options) primitive(k tt.Kind) Primitive {
	switch k {
	case tt.KindChar:
		return o.Char
	case tt.KindStrView:
		return o.StrView
	case tt.KindOwnedStr:
		return o.OwnedStr
	default:
		return Primitive{}
	}
}

func (o Options) method(op tt.Operator) string {
	switch op {
	case tt.OpConcatenate:
		return o.Methods.Concatenate
	case tt.OpAlternate:
		return o.Methods.Alternate
	case tt.OpUnion:
		return o.Methods.Union
	case tt.OpEqualityTest:
		return o.Methods.EqualityTest
	default:
		return ""
	}
}

func (o Options) call(name string) string {
	switch name {
	case rules.CallConcatenate:
		return o.Calls.Concatenate
	case rules.CallAlternate:
		return o.Calls.Alternate
	case rules.CallUnion:
		return o.Calls.Union
	case rules.CallIsEqual:
		return o.Calls.IsEqual
	default:
		return ""
	}
}

func (o Options) qualified(name string) string {
	return o.Runtime.Name + "." + name
}

// goType spells ref as a Go type.
func (o Options) goType(ref tt.TypeRef) string {
	switch {
	case ref.Kind.IsPrimitive():
		return o.primitive(ref.Kind).Type
	case ref.Kind == tt.KindRec:
		return o.qualified(o.Rec)
	case ref.Kind == tt.KindCh:
		return o.qualified(o.Ch)
	default:
		return ref.Name
	}
}

func (o Options) goResult(r tt.Result) string {
	switch r {
	case tt.ResultBool:
		return "bool"
	case tt.ResultRec:
		return o.qualified(o.Rec)
	case tt.ResultCh:
		return o.qualified(o.Ch)
	default:
		return ""
	}
}

// suffix names ref inside generated identifiers.
func (o Options) suffix(ref tt.TypeRef) string {
	switch {
	case ref.Kind.IsPrimitive():
		return o.primitive(ref.Kind).Suffix
	case ref.Kind == tt.KindRec:
		return o.Rec
	case ref.Kind == tt.KindCh:
		return o.Ch
	default:
		return ref.Name
	}
}
