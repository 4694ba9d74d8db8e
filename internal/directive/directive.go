// Package directive finds the type declarations that ask for operator
// bindings.
//
// A type is annotated with a comment directly above its declaration:
//
//	//recgen:atom
//	type Lit struct{ ... }
//
//	//recgen:component
//	type Seq struct{ ... }
package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/gnolang/recgen/internal/category"
	tt "github.com/gnolang/recgen/internal/types"
)

const prefix = "//recgen"

// Decl is one annotated type declaration.
type Decl struct {
	Name  string
	Kinds []tt.Kind
	Pos   token.Position
}

// ParseFile returns the annotated type declarations of f in source order.
func ParseFile(f *ast.File, fset *token.FileSet) ([]Decl, error) {
	var decls []Decl
	for _, d := range f.Decls {
		gen, ok := d.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			groups := []*ast.CommentGroup{ts.Doc}
			// a lone spec carries its doc on the GenDecl
			if len(gen.Specs) == 1 {
				groups = append(groups, gen.Doc)
			}

			decl, found, err := parseGroups(groups)
			if err != nil {
				pos := fset.Position(ts.Pos())
				return nil, fmt.Errorf("%s: type %s: %w", pos, ts.Name.Name, err)
			}
			if !found {
				continue
			}
			decl.Name = ts.Name.Name
			decl.Pos = fset.Position(ts.Pos())
			decls = append(decls, decl)
		}
	}
	return decls, nil
}

func parseGroups(groups []*ast.CommentGroup) (Decl, bool, error) {
	var decl Decl
	found := false
	for _, cg := range groups {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			if !strings.HasPrefix(c.Text, prefix) {
				continue
			}
			kinds, err := parseComment(c.Text)
			if err != nil {
				return decl, false, err
			}
			found = true
			decl.Kinds = append(decl.Kinds, kinds...)
		}
	}
	return decl, found, nil
}

// parseComment parses a single directive. The category list after the colon
// is comma separated so that conflicting annotations surface as errors
// instead of being silently dropped.
func parseComment(text string) ([]tt.Kind, error) {
	rest := text[len(prefix):]
	if rest == "" || rest[0] != ':' {
		return nil, fmt.Errorf("%w: invalid directive %q", category.ErrMalformedRegistration, text)
	}
	rest = strings.TrimSpace(rest[1:])
	if rest == "" {
		return nil, fmt.Errorf("%w: no category after colon", category.ErrMalformedRegistration)
	}

	var kinds []tt.Kind
	for _, name := range strings.Split(rest, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		k, ok := tt.ParseKind(name)
		if !ok || !k.IsConcrete() {
			return nil, fmt.Errorf("%w: unknown category %q", category.ErrMalformedRegistration, name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Register adds every decl to reg, stopping at the first malformed one.
func Register(reg *category.Registry, decls []Decl) error {
	for _, d := range decls {
		if err := reg.Register(d.Name, d.Kinds...); err != nil {
			return fmt.Errorf("%s: %w", d.Pos, err)
		}
	}
	return nil
}
