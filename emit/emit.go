// Package emit renders a binding matrix into an output format.
package emit

import (
	"fmt"
	"io"

	tt "github.com/gnolang/recgen/internal/types"
)

// File is the binding matrix of one Go package.
type File struct {
	Package  string       `json:"package"`
	Sources  []string     `json:"sources,omitempty"`
	Bindings []tt.Binding `json:"bindings"`
}

// Emitter writes a File in some concrete syntax.
type Emitter interface {
	Emit(w io.Writer, file File) error
}

// Format names a built-in emitter.
type Format string

const (
	FormatGo    Format = "go"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// New returns the emitter for format.
func New(format Format, opts Options) (Emitter, error) {
	switch format {
	case FormatGo, "":
		return NewGo(opts), nil
	case FormatJSON:
		return JSON{}, nil
	case FormatTable:
		return Table{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// Local returns the operand of b that was being processed when b was
// synthesized.
func Local(b tt.Binding) tt.TypeRef {
	if b.Left.Kind.IsConcrete() {
		return b.Left
	}
	return b.Right
}
