package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"io"
	"path"
	"strings"
	"text/template"

	tt "github.com/gnolang/recgen/internal/types"
	"golang.org/x/tools/go/ast/astutil"
)

// Header marks generated files so that tools skip them.
const Header = "// Code generated by recgen. DO NOT EDIT."

const goTemplate = `{{header}}
{{with .Sources}}
// Sources:
{{- range .}}
//	{{.}}
{{- end}}
{{end}}
package {{.Package}}
{{range .Funcs}}
// {{.Name}} implements {{.Doc}}.
func {{if .Method}}(lhs {{.LeftType}}) {{.Name}}(rhs {{.RightType}}){{else}}{{.Name}}(lhs {{.LeftType}}, rhs {{.RightType}}){{end}} {{.Result}} {
	return {{.Receiver}}.{{.Call}}({{.Argument}})
}
{{end}}`

var goTmpl = template.Must(template.New("go").Funcs(template.FuncMap{
	"header": func() string { return Header },
}).Parse(goTemplate))

// goFunc is one rendered binding.
type goFunc struct {
	Method    bool
	Name      string
	Doc       string
	LeftType  string
	RightType string
	Result    string
	Receiver  string
	Call      string
	Argument  string
}

type goFile struct {
	Package string
	Sources []string
	Funcs   []goFunc
}

// Go renders bindings as Go source. Bindings whose left operand is a
// concrete type become methods on it; the others become package functions,
// since methods cannot be declared on foreign types.
type Go struct {
	opts Options
}

func NewGo(opts Options) *Go {
	return &Go{opts: opts}
}

func (g *Go) Emit(w io.Writer, file File) error {
	src, err := g.Render(file)
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return err
}

// Render returns the formatted source for file.
func (g *Go) Render(file File) ([]byte, error) {
	if err := g.opts.Validate(); err != nil {
		return nil, err
	}
	if file.Package == "" {
		return nil, fmt.Errorf("missing package name")
	}

	data := goFile{Package: file.Package, Sources: file.Sources}
	names := make(map[string]tt.Binding, len(file.Bindings))
	for _, b := range file.Bindings {
		fn, err := g.function(b)
		if err != nil {
			return nil, err
		}
		key := fn.Name
		if fn.Method {
			key = fn.LeftType + "." + fn.Name
		}
		if prev, exists := names[key]; exists {
			return nil, fmt.Errorf("bindings %q and %q both render as %s", prev, b, key)
		}
		names[key] = b
		data.Funcs = append(data.Funcs, fn)
	}

	var buf bytes.Buffer
	if err := goTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", file.Package, err)
	}

	return g.finish(buf.Bytes())
}

// finish adds the runtime import when it is referenced and gofmts the result.
func (g *Go) finish(src []byte) ([]byte, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated source: %w", err)
	}

	rt := g.opts.Runtime
	name := rt.Name
	if path.Base(rt.Path) == rt.Name {
		name = ""
	}
	astutil.AddNamedImport(fset, f, name, rt.Path)
	if !astutil.UsesImport(f, rt.Path) {
		astutil.DeleteNamedImport(fset, f, name, rt.Path)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, f); err != nil {
		return nil, fmt.Errorf("failed to format generated source: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Go) function(b tt.Binding) (goFunc, error) {
	call := g.opts.call(b.Call)
	if call == "" {
		return goFunc{}, fmt.Errorf("binding %s: unknown call %q", b, b.Call)
	}
	fn := goFunc{
		Method:    b.Left.Kind.IsConcrete(),
		Doc:       fmt.Sprintf("%s %s %s", b.Left, b.Op.Symbol(), b.Right),
		LeftType:  g.opts.goType(b.Left),
		RightType: g.opts.goType(b.Right),
		Result:    g.opts.goResult(b.Result),
		Call:      call,
	}
	if fn.Method {
		fn.Name = g.opts.method(b.Op) + exported(g.opts.suffix(b.Right))
	} else {
		fn.Name = g.opts.suffix(b.Left) + g.opts.method(b.Op) + exported(b.Right.Name)
	}

	operand := func(side tt.Side) string {
		name, ref := "lhs", b.Left
		if side == tt.SideRight {
			name, ref = "rhs", b.Right
		}
		if ref.Kind.IsPrimitive() {
			return fmt.Sprintf("%s(%s)", g.opts.qualified(g.opts.primitive(ref.Kind).Lift), name)
		}
		return name
	}
	other := tt.SideRight
	if b.Self == tt.SideRight {
		other = tt.SideLeft
	}
	fn.Receiver = operand(b.Self)
	fn.Argument = operand(other)
	return fn, nil
}

// exported capitalizes name so unexported local types still produce
// readable function names.
func exported(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
