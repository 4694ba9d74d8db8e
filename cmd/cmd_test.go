package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/gnolang/recgen/emit"
	"github.com/gnolang/recgen/gen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const patSource = `package pat

//recgen:component
type Seq []any

//recgen:atom
type Lit string
`

func setupPackage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pat.go"), []byte(patSource), 0o644))
	return dir
}

func TestRunGenerate(t *testing.T) {
	t.Parallel()
	dir := setupPackage(t)
	engine := gen.NewWithConfig(zap.NewNop(), gen.DefaultConfig())

	var stdout bytes.Buffer
	err := runGenerate(context.Background(), &stdout, zap.NewNop(), engine, []string{dir + "/..."}, generateOptions{Workers: 1})
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	content, err := os.ReadFile(filepath.Join(dir, "pat_recgen.go"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte(emit.Header)))
	assert.Contains(t, string(content), "func (lhs Lit) UnionRune(rhs rune) rec.Ch {")
	assert.Contains(t, string(content), "func RuneOrSeq(lhs rune, rhs Seq) rec.Rec {")

	// regenerating ignores the generated file and yields the same output
	require.NoError(t, runGenerate(context.Background(), &stdout, zap.NewNop(), engine, []string{dir}, generateOptions{}))
	again, err := os.ReadFile(filepath.Join(dir, "pat_recgen.go"))
	require.NoError(t, err)
	assert.Equal(t, content, again)
}

func TestRunGenerateRemovesStaleFile(t *testing.T) {
	t.Parallel()
	dir := setupPackage(t)
	engine := gen.NewWithConfig(zap.NewNop(), gen.DefaultConfig())
	out := filepath.Join(dir, "pat_recgen.go")

	require.NoError(t, runGenerate(context.Background(), &bytes.Buffer{}, zap.NewNop(), engine, []string{dir}, generateOptions{}))
	require.FileExists(t, out)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pat.go"), []byte("package pat\n\ntype Lit string\n"), 0o644))
	require.NoError(t, runGenerate(context.Background(), &bytes.Buffer{}, zap.NewNop(), engine, []string{dir}, generateOptions{}))
	assert.NoFileExists(t, out)
}

func TestRunGenerateDryRun(t *testing.T) {
	t.Parallel()
	dir := setupPackage(t)
	engine := gen.NewWithConfig(zap.NewNop(), gen.DefaultConfig())

	var stdout bytes.Buffer
	err := runGenerate(context.Background(), &stdout, zap.NewNop(), engine, []string{dir}, generateOptions{DryRun: true})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "package pat")

	_, err = os.Stat(filepath.Join(dir, "pat_recgen.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunGenerateMalformed(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := "package pat\n\n//recgen:atom\n//recgen:component\ntype Both int\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pat.go"), []byte(src), 0o644))
	engine := gen.NewWithConfig(zap.NewNop(), gen.DefaultConfig())

	err := runGenerate(context.Background(), &bytes.Buffer{}, zap.NewNop(), engine, []string{dir}, generateOptions{})
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "pat_recgen.go"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMatrix(t *testing.T) {
	color.NoColor = true
	dir := setupPackage(t)
	sub := filepath.Join(dir, "tok")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "tok.go"), []byte("package tok\n\n//recgen:atom\ntype Tok rune\n"), 0o644))
	engine := gen.NewWithConfig(zap.NewNop(), gen.DefaultConfig())

	var stdout bytes.Buffer
	require.NoError(t, runMatrix(context.Background(), &stdout, zap.NewNop(), engine, []string{dir}, false, ""))
	assert.Contains(t, stdout.String(), "package pat (63 bindings)")
	assert.Contains(t, stdout.String(), "package tok (")

	out := filepath.Join(t.TempDir(), "matrix.json")
	require.NoError(t, runMatrix(context.Background(), &stdout, zap.NewNop(), engine, []string{dir}, true, out))
	d, err := os.ReadFile(out)
	require.NoError(t, err)

	var decoded []struct {
		Package  string            `json:"package"`
		Bindings []json.RawMessage `json:"bindings"`
	}
	require.NoError(t, json.Unmarshal(d, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "pat", decoded[0].Package)
	assert.Len(t, decoded[0].Bindings, 63)
	assert.Equal(t, "tok", decoded[1].Package)
	assert.NotEmpty(t, decoded[1].Bindings)
}

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".recgen.yaml")
	require.NoError(t, initConfigurationFile(path, false))

	config, err := gen.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, gen.DefaultConfig(), config)

	assert.Error(t, initConfigurationFile(path, false))
	assert.NoError(t, initConfigurationFile(path, true))
}

func TestCleanPaths(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{".", "pkg", "a/b"}, cleanPaths([]string{"./...", "./pkg/...", "a/b/"}))
	assert.Equal(t, []string{"."}, cleanPaths([]string{"..."}))
}
