package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ACTIONLIST_DB",
		"ACTIONLIST_EXPORT_DIR",
		"ACTIONLIST_LOG_LEVEL",
		"ACTIONLIST_LOG_FORMAT",
		"ACTIONLIST_SEED_DEFAULTS",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("", Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "" {
		t.Errorf("DBPath: got %q, want empty", cfg.DBPath)
	}
	if cfg.ExportDir != DefaultExportDir {
		t.Errorf("ExportDir: got %q", cfg.ExportDir)
	}
	if cfg.LogLevel != DefaultLogLevel || cfg.LogFormat != DefaultLogFormat {
		t.Errorf("log settings: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if !cfg.SeedDefaults {
		t.Errorf("SeedDefaults: got false, want true")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
db_path = "/tmp/al.db"
export_dir = "/tmp/out"
log_level = "debug"
seed_defaults = false
`)
	cfg, err := Load(path, Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/al.db" || cfg.ExportDir != "/tmp/out" || cfg.LogLevel != "debug" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.LogFormat != DefaultLogFormat {
		t.Errorf("unset key should keep default, got %q", cfg.LogFormat)
	}
	if cfg.SeedDefaults {
		t.Errorf("seed_defaults = false not applied")
	}
}

func TestLoadDefaultPathFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "actionlist"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "actionlist", "config.toml"), []byte(`log_format = "json"`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("", Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %q, want json", cfg.LogFormat)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml"), Overrides{}); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "log_level = [unclosed")
	if _, err := Load(path, Overrides{}); err == nil {
		t.Error("expected parse error")
	}
}

func TestPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
db_path = "/file.db"
log_level = "warn"
export_dir = "/file-out"
`)
	t.Setenv("ACTIONLIST_DB", "/env.db")
	t.Setenv("ACTIONLIST_LOG_LEVEL", "error")
	t.Setenv("ACTIONLIST_SEED_DEFAULTS", "no")

	cfg, err := Load(path, Overrides{LogLevel: "debug"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/env.db" {
		t.Errorf("env should beat file: DBPath = %q", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("flag should beat env: LogLevel = %q", cfg.LogLevel)
	}
	if cfg.ExportDir != "/file-out" {
		t.Errorf("file value should survive: ExportDir = %q", cfg.ExportDir)
	}
	if cfg.SeedDefaults {
		t.Errorf("ACTIONLIST_SEED_DEFAULTS=no not applied")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	t.Setenv("AL_TEST_DIR", "/var/al")
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{":memory:", ":memory:"},
		{"~", home},
		{"~/data/al.db", filepath.Join(home, "data", "al.db")},
		{"$AL_TEST_DIR/x.db", "/var/al/x.db"},
		{"/abs/path", "/abs/path"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBoolFromString(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " on "} {
		if !boolFromString(v) {
			t.Errorf("boolFromString(%q) = false", v)
		}
	}
	for _, v := range []string{"0", "false", "no", "off", "maybe"} {
		if boolFromString(v) {
			t.Errorf("boolFromString(%q) = true", v)
		}
	}
}
