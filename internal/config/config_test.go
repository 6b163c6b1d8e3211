package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Metrics.Enabled() {
		t.Error("metrics should be disabled by default")
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Setenv("NBFS_TEST_ADDR", "127.0.0.1:9109")
	path := writeConfig(t, `
mount:
  allow_other: true
  strict_names: true
log:
  level: debug
metrics:
  addr: ${NBFS_TEST_ADDR}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Mount.Suffix != ".ipynb" {
		t.Errorf("suffix = %q, want default .ipynb", cfg.Mount.Suffix)
	}
	if !cfg.Mount.AllowOther || !cfg.Mount.StrictNames {
		t.Errorf("mount flags not loaded: %+v", cfg.Mount)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Metrics.Addr != "127.0.0.1:9109" {
		t.Errorf("metrics addr = %q, want env expanded value", cfg.Metrics.Addr)
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "suffix without dot", content: "mount:\n  suffix: ipynb\n", want: "Suffix"},
		{name: "suffix with slash", content: "mount:\n  suffix: .a/b\n", want: "Suffix"},
		{name: "empty fs name", content: "mount:\n  fs_name: \"\"\n", want: "FSName"},
		{name: "bad level", content: "log:\n  level: loud\n", want: "Level"},
		{name: "bad addr", content: "metrics:\n  addr: localhost\n", want: "host:port"},
		{name: "not yaml", content: "mount: [", want: "failed to parse"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadWithDefaults_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadWithDefaults("")
	if err != nil {
		t.Fatalf("LoadWithDefaults returned error: %v", err)
	}
	if cfg.Mount.FSName != "nbfs" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}
