package cmd

import (
	"path/filepath"
	"strings"
)

// cleanPaths turns go-style package patterns such as ./... into the
// directories they are rooted at.
func cleanPaths(args []string) []string {
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSuffix(arg, "...")
		if arg == "" {
			arg = "."
		}
		paths = append(paths, filepath.Clean(arg))
	}
	return paths
}
