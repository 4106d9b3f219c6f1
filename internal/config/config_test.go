package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Diagnostics.Color != "auto" {
		t.Errorf("Diagnostics.Color = %q, want auto", cfg.Diagnostics.Color)
	}
	if got := cfg.Jobs(); got != runtime.NumCPU() {
		t.Errorf("Jobs() = %d, want %d", got, runtime.NumCPU())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:  "empty keeps defaults",
			input: "",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Log.Level != "info" || cfg.Diagnostics.Color != "auto" || cfg.Build.Jobs != 0 {
					t.Errorf("cfg = %+v", cfg)
				}
			},
		},
		{
			name: "all sections",
			input: `
[log]
level = "debug"

[diagnostics]
color = "never"

[build]
jobs = 3
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Log.Level != "debug" {
					t.Errorf("Log.Level = %q", cfg.Log.Level)
				}
				if cfg.Diagnostics.Color != "never" {
					t.Errorf("Diagnostics.Color = %q", cfg.Diagnostics.Color)
				}
				if cfg.Jobs() != 3 {
					t.Errorf("Jobs() = %d", cfg.Jobs())
				}
			},
		},
		{
			name:  "partial",
			input: "[build]\njobs = 1\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Log.Level != "info" || cfg.Build.Jobs != 1 {
					t.Errorf("cfg = %+v", cfg)
				}
			},
		},
		{name: "unknown key", input: "[log]\nlevel = \"info\"\nformat = \"json\"\n", wantErr: true},
		{name: "unknown section", input: "[server]\nport = 1\n", wantErr: true},
		{name: "bad level", input: "[log]\nlevel = \"loud\"\n", wantErr: true},
		{name: "bad color", input: "[diagnostics]\ncolor = \"yes\"\n", wantErr: true},
		{name: "negative jobs", input: "[build]\njobs = -1\n", wantErr: true},
		{name: "syntax", input: "[log\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load() of a missing explicit file succeeded")
	}
}

func TestLoadDefaultFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() without file: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}

	if err := os.WriteFile(DefaultFile, []byte("[diagnostics]\ncolor = \"always\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() with %s: %v", DefaultFile, err)
	}
	if cfg.Diagnostics.Color != "always" {
		t.Errorf("Diagnostics.Color = %q, want always", cfg.Diagnostics.Color)
	}
}
