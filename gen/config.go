package gen

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gnolang/recgen/emit"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the file `recgen init` writes.
const DefaultConfigPath = ".recgen.yaml"

// Config is the contents of a .recgen.yaml file.
type Config struct {
	Name string `yaml:"name"`
	// Output is the name suffix of the generated file in each package.
	Output string       `yaml:"output"`
	Go     emit.Options `yaml:"go"`
}

func DefaultConfig() Config {
	return Config{
		Name:   "recgen",
		Output: "_recgen.go",
		Go:     emit.DefaultOptions(),
	}
}

// LoadConfig reads the configuration at path on top of the defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return config, config.Validate()
}

func (c Config) Validate() error {
	if !strings.HasSuffix(c.Output, ".go") || strings.HasSuffix(c.Output, "_test.go") {
		return fmt.Errorf("output %q must be a non-test .go suffix", c.Output)
	}
	return c.Go.Validate()
}

// WriteConfig writes config to path as YAML.
func WriteConfig(path string, config Config) error {
	if path == "" {
		path = DefaultConfigPath
	}

	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, d, 0o644)
}
