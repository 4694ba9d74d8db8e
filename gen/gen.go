// Package gen drives generation over Go package directories: it finds the
// annotated types of each package, synthesizes their binding matrix and
// writes it next to the sources.
package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/gnolang/recgen/emit"
	"github.com/gnolang/recgen/internal/category"
	"github.com/gnolang/recgen/internal/directive"
	"github.com/gnolang/recgen/internal/synth"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine synthesizes the matrix of one package directory.
type Engine interface {
	Run(dir string) (Package, error)
	RunSource(filename string, source []byte) (Package, error)
}

// Package is the result of generating one directory.
type Package struct {
	Dir  string
	File emit.File
}

// OutputPath is where the generated source of p is written.
func (p Package) OutputPath(suffix string) string {
	return filepath.Join(p.Dir, p.File.Package+suffix)
}

// Generator is the default Engine.
type Generator struct {
	config Config
	logger *zap.Logger
}

// New loads the configuration at configPath and returns a Generator.
func New(logger *zap.Logger, configPath string) (*Generator, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(logger, config), nil
}

func NewWithConfig(logger *zap.Logger, config Config) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{config: config, logger: logger}
}

func (g *Generator) Config() Config {
	return g.config
}

// Run parses the non-test, non-generated Go files of dir.
func (g *Generator) Run(dir string) (Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Package{}, fmt.Errorf("error accessing %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	var files []*ast.File
	var sources []string
	// ReadDir sorts by name, which keeps registration order stable
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !g.isInput(name) {
			continue
		}
		path := filepath.Join(dir, name)
		src, err := os.ReadFile(path)
		if err != nil {
			return Package{}, fmt.Errorf("error reading %s: %w", path, err)
		}
		if isGenerated(src) {
			continue
		}
		f, err := parser.ParseFile(fset, path, src, parser.ParseComments)
		if err != nil {
			return Package{}, fmt.Errorf("error parsing file: %w", err)
		}
		files = append(files, f)
		sources = append(sources, name)
	}

	return g.synthesize(dir, fset, files, sources)
}

// RunSource generates from a single in-memory file.
func (g *Generator) RunSource(filename string, source []byte) (Package, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, source, parser.ParseComments)
	if err != nil {
		return Package{}, fmt.Errorf("error parsing file: %w", err)
	}
	return g.synthesize(filepath.Dir(filename), fset, []*ast.File{f}, []string{filepath.Base(filename)})
}

func (g *Generator) synthesize(dir string, fset *token.FileSet, files []*ast.File, sources []string) (Package, error) {
	pkg := Package{Dir: dir}
	reg := category.NewRegistry()

	// every registration of the package happens before any enumeration
	for _, f := range files {
		if pkg.File.Package == "" {
			pkg.File.Package = f.Name.Name
		} else if f.Name.Name != pkg.File.Package {
			return Package{}, fmt.Errorf("%s: found packages %s and %s", dir, pkg.File.Package, f.Name.Name)
		}
		decls, err := directive.ParseFile(f, fset)
		if err != nil {
			return Package{}, err
		}
		if err := directive.Register(reg, decls); err != nil {
			return Package{}, err
		}
	}
	if reg.Len() == 0 {
		g.logger.Debug("No annotated types", zap.String("dir", dir))
		return pkg, nil
	}

	sets, err := synth.New(reg).SynthesizeAll()
	if err != nil {
		return Package{}, err
	}
	pkg.File.Sources = sources
	pkg.File.Bindings = synth.Flatten(sets)

	g.logger.Debug("Synthesized bindings",
		zap.String("dir", dir),
		zap.String("package", pkg.File.Package),
		zap.Strings("types", reg.Names()),
		zap.Int("bindings", len(pkg.File.Bindings)),
	)
	return pkg, nil
}

func (g *Generator) isInput(name string) bool {
	return filepath.Ext(name) == ".go" &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, g.config.Output)
}

func isGenerated(src []byte) bool {
	return bytes.HasPrefix(src, []byte(emit.Header))
}

// Options control ProcessPaths.
type Options struct {
	// Progress shows a progress bar while walking directories.
	Progress bool
	// Workers bounds the number of packages generated at once.
	Workers int
}

// ProcessPaths runs engine over every package directory under paths. Any
// failure aborts the run; no partial result is returned.
func ProcessPaths(ctx context.Context, logger *zap.Logger, engine Engine, paths []string, opts Options) ([]Package, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var dirs []string
	for _, path := range paths {
		found, err := packageDirs(path)
		if err != nil {
			logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			return nil, err
		}
		dirs = append(dirs, found...)
	}
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions(len(dirs),
			progressbar.OptionSetDescription("generating"),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	results := make([]Package, len(dirs))
	var barMu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, dir := range dirs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pkg, err := engine.Run(dir)
			if err != nil {
				logger.Error("Error generating package", zap.String("dir", dir), zap.Error(err))
				return err
			}
			results[i] = pkg
			if bar != nil {
				barMu.Lock()
				_ = bar.Add(1)
				barMu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	return results, nil
}

// packageDirs lists path itself when it is a file's or a package's
// directory, and every directory below it otherwise.
func packageDirs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		if filepath.Ext(path) != ".go" {
			return nil, nil
		}
		return []string{filepath.Dir(path)}, nil
	}

	var dirs []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if p != path && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor") {
			return filepath.SkipDir
		}
		if hasGoFiles(p) {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", path, err)
	}
	return dirs, nil
}

func hasGoFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".go" {
			return true
		}
	}
	return false
}

// Write renders every package with bindings through emitter into its
// directory. When dryRun is non-nil the output goes there instead.
//
// All packages are rendered before anything is written, so a failure leaves
// the tree untouched. A package left without bindings has its previously
// generated file removed.
func Write(logger *zap.Logger, emitter emit.Emitter, pkgs []Package, suffix string, dryRun io.Writer) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rendered := make([][]byte, len(pkgs))
	for i, pkg := range pkgs {
		if len(pkg.File.Bindings) == 0 {
			continue
		}
		var buf bytes.Buffer
		if err := emitter.Emit(&buf, pkg.File); err != nil {
			return nil, fmt.Errorf("failed to emit %s: %w", pkg.Dir, err)
		}
		rendered[i] = buf.Bytes()
	}

	var written []string
	for i, pkg := range pkgs {
		if rendered[i] == nil {
			if dryRun == nil {
				if err := removeStale(logger, pkg, suffix); err != nil {
					return written, err
				}
			}
			continue
		}

		if dryRun != nil {
			if _, err := dryRun.Write(rendered[i]); err != nil {
				return written, err
			}
			continue
		}

		out := pkg.OutputPath(suffix)
		if err := os.WriteFile(out, rendered[i], 0o644); err != nil {
			return written, fmt.Errorf("failed to write file: %w", err)
		}
		logger.Info("Generated bindings", zap.String("file", out), zap.Int("bindings", len(pkg.File.Bindings)))
		written = append(written, out)
	}
	return written, nil
}

// removeStale deletes the output of a package that no longer has annotated
// types. Files without the generated header are left alone.
func removeStale(logger *zap.Logger, pkg Package, suffix string) error {
	candidates := []string{pkg.OutputPath(suffix)}
	// every source was deleted, so the package name is unknown
	if pkg.File.Package == "" {
		var err error
		candidates, err = filepath.Glob(filepath.Join(pkg.Dir, "*"+suffix))
		if err != nil {
			return err
		}
	}

	for _, out := range candidates {
		src, err := os.ReadFile(out)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("error reading %s: %w", out, err)
		}
		if !isGenerated(src) {
			logger.Warn("Not removing file without generated header", zap.String("file", out))
			continue
		}
		if err := os.Remove(out); err != nil {
			return fmt.Errorf("failed to remove stale file: %w", err)
		}
		logger.Info("Removed stale bindings", zap.String("file", out))
	}
	return nil
}
