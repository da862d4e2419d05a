package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.Interpreter.StrictLines {
		t.Error("StrictLines should default to true")
	}
	if cfg.Interpreter.BatchErrors {
		t.Error("BatchErrors should default to false")
	}
	if !cfg.Output.Color {
		t.Error("Color should default to true")
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Errorf("log defaults = %q/%q", cfg.Log.Level, cfg.Log.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CODELANG_LOGDIR", "/var/log/codelang")

	tests := []struct {
		name    string
		file    string
		content string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "toml",
			file: "a.toml",
			content: `
[interpreter]
strict_lines = false
max_steps = 1000

[log]
level = "debug"
file = "$CODELANG_LOGDIR/run.log"
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Interpreter.StrictLines {
					t.Error("strict_lines not applied")
				}
				if cfg.Interpreter.MaxSteps != 1000 {
					t.Errorf("max_steps = %d", cfg.Interpreter.MaxSteps)
				}
				if !cfg.Output.Color {
					t.Error("unset output.color lost its default")
				}
				if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
					t.Errorf("log = %+v", cfg.Log)
				}
				if cfg.Log.File != "/var/log/codelang/run.log" {
					t.Errorf("log.file = %q", cfg.Log.File)
				}
			},
		},
		{
			name: "yaml",
			file: "b.yaml",
			content: `
interpreter:
  batch_errors: true
output:
  color: false
log:
  format: json
`,
			check: func(t *testing.T, cfg *Config) {
				if !cfg.Interpreter.BatchErrors {
					t.Error("batch_errors not applied")
				}
				if !cfg.Interpreter.StrictLines {
					t.Error("unset strict_lines lost its default")
				}
				if cfg.Output.Color {
					t.Error("color not applied")
				}
				if cfg.Log.Format != "json" || cfg.Log.Level != "warn" {
					t.Errorf("log = %+v", cfg.Log)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Source != path {
				t.Errorf("Source = %q, want %q", cfg.Source, path)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown level", "level.toml", "[log]\nlevel = \"loud\"\n"},
		{"unknown format", "format.yaml", "log:\n  format: xml\n"},
		{"negative steps", "steps.toml", "[interpreter]\nmax_steps = -1\n"},
		{"bad toml", "bad.toml", "[interpreter\n"},
		{"unsupported extension", "conf.ini", "x=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			if _, err := Load(path); err == nil {
				t.Errorf("Load(%s) expected error", tt.file)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}

	path := writeFile(t, dir, "v.toml", "[interpreter]\nmax_steps = -5\n")
	_, err := Load(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "interpreter.max_steps" {
		t.Errorf("error = %v, want ValidationError on interpreter.max_steps", err)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(EnvVar, "")

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("expected defaults, got config from %q", cfg.Source)
	}

	writeFile(t, dir, "codelang.yaml", "interpreter:\n  max_steps: 7\n")
	cfg, err = Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Interpreter.MaxSteps != 7 {
		t.Errorf("default path not used: max_steps = %d", cfg.Interpreter.MaxSteps)
	}

	envPath := writeFile(t, dir, "env.toml", "[interpreter]\nmax_steps = 9\n")
	t.Setenv(EnvVar, envPath)
	cfg, err = Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Interpreter.MaxSteps != 9 {
		t.Errorf("env path not used: max_steps = %d", cfg.Interpreter.MaxSteps)
	}

	flagPath := writeFile(t, dir, "flag.toml", "[interpreter]\nmax_steps = 11\n")
	cfg, err = Resolve(flagPath)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Interpreter.MaxSteps != 11 {
		t.Errorf("explicit path not used: max_steps = %d", cfg.Interpreter.MaxSteps)
	}
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(abs); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", abs)
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
