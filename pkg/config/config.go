package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no path is given.
const EnvVar = "CODELANG_CONFIG"

// defaultPaths are tried in order when neither a flag nor EnvVar names a file.
var defaultPaths = []string{"./codelang.toml", "./codelang.yaml", "./codelang.yml"}

// Config holds the complete interpreter configuration
type Config struct {
	Interpreter InterpreterConfig `toml:"interpreter" yaml:"interpreter"`
	Output      OutputConfig      `toml:"output" yaml:"output"`
	Log         LogConfig         `toml:"log" yaml:"log"`

	// Source is the file the configuration was read from, empty for defaults.
	Source string `toml:"-" yaml:"-"`
}

// InterpreterConfig controls the lex/parse/run pipeline
type InterpreterConfig struct {
	StrictLines bool `toml:"strict_lines" yaml:"strict_lines"`
	BatchErrors bool `toml:"batch_errors" yaml:"batch_errors"`
	MaxSteps    int  `toml:"max_steps" yaml:"max_steps"`
}

// OutputConfig controls how diagnostics are rendered
type OutputConfig struct {
	Color bool `toml:"color" yaml:"color"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	File   string `toml:"file" yaml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Interpreter: InterpreterConfig{StrictLines: true},
		Output:      OutputConfig{Color: true},
		Log:         LogConfig{Level: "warn", Format: "text"},
	}
}

// Load reads a TOML or YAML file, chosen by extension, on top of Default().
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := decode(path, content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Source = path
	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, content []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.NewDecoder(bytes.NewReader(content)).Decode(cfg)
		return err
	case ".yaml", ".yml":
		return yaml.Unmarshal(content, cfg)
	}
	return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
}

// Resolve picks the configuration file: the explicit path, else $CODELANG_CONFIG,
// else the first default path that exists. With no file it returns Default().
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults fills string fields left empty by the file
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// expandEnvVars expands environment variables in path-like values
func (c *Config) expandEnvVars() {
	c.Log.File = os.ExpandEnv(c.Log.File)
}
