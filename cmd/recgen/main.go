// Command recgen generates operator bindings for pattern types.
//
// Typical use is a go:generate directive next to the annotated types:
//
//	//go:generate recgen generate .
package main

import (
	"os"

	"github.com/gnolang/recgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
