package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	tt "github.com/gnolang/recgen/internal/types"
)

var (
	packageStyle = color.New(color.FgCyan, color.Bold)
	typeStyle    = color.New(color.FgYellow, color.Bold)
	opStyle      = color.New(color.FgHiBlue, color.Bold)
	resultStyle  = color.New(color.FgGreen)
	mirrorStyle  = color.New(color.FgMagenta)
	noStyle      = color.New(color.FgWhite)
)

// Table prints the matrix grouped by the type each binding belongs to.
type Table struct{}

func (Table) Emit(w io.Writer, file File) error {
	var sb strings.Builder
	sb.WriteString(packageStyle.Sprintf("package %s", file.Package))
	sb.WriteString(noStyle.Sprintf(" (%d bindings)\n", len(file.Bindings)))

	width := 0
	for _, b := range file.Bindings {
		width = max(width, len(b.Left.Name))
	}

	var current string
	for _, b := range file.Bindings {
		local := Local(b)
		if local.Name != current {
			current = local.Name
			sb.WriteString(typeStyle.Sprintf("\n%s", local.Name))
			sb.WriteString(noStyle.Sprintf(" [%s]\n", local.Kind))
		}
		sb.WriteString(formatRow(b, width))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func formatRow(b tt.Binding, width int) string {
	marker := "  "
	if !b.Left.Kind.IsConcrete() {
		marker = mirrorStyle.Sprint("↔ ")
	}
	return fmt.Sprintf("  %s%-*s %s %s -> %s  %s\n",
		marker,
		width, b.Left.Name,
		opStyle.Sprintf("%-2s", b.Op.Symbol()),
		b.Right.Name,
		resultStyle.Sprint(b.Result),
		noStyle.Sprintf("(%s)", b.Call),
	)
}
