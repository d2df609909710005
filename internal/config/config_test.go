package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"NEXUS_STORAGE_DRIVER", "NEXUS_STORAGE_PATH", "NEXUS_BACKEND", "NEXUS_MODEL", "NEXUS_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "nexus" {
		t.Errorf("expected Name=nexus, got %s", cfg.Name)
	}
	if cfg.Generation.Backend != "echo" {
		t.Errorf("expected Backend=echo, got %s", cfg.Generation.Backend)
	}
	if cfg.Storage.Driver != "file" {
		t.Errorf("expected Driver=file, got %s", cfg.Storage.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Storage.Driver = "sqlite"
	cfg.Generation.Backend = "gemini"
	cfg.UI.DefaultCategory = "code"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Storage.Driver != "sqlite" {
		t.Errorf("expected Driver=sqlite, got %s", loaded.Storage.Driver)
	}
	if loaded.Generation.Backend != "gemini" {
		t.Errorf("expected Backend=gemini, got %s", loaded.Generation.Backend)
	}
	if loaded.UI.DefaultCategory != "code" {
		t.Errorf("expected DefaultCategory=code, got %s", loaded.UI.DefaultCategory)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Generation.Delay != "2s" {
		t.Errorf("expected default delay, got %s", cfg.Generation.Delay)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("NEXUS_STORAGE_DRIVER", "memory")
	t.Setenv("NEXUS_STORAGE_PATH", "/tmp/nexus")
	t.Setenv("NEXUS_BACKEND", "gemini")
	t.Setenv("NEXUS_MODEL", "gemini-test")
	t.Setenv("NEXUS_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Storage.Driver != "memory" || cfg.Storage.Path != "/tmp/nexus" {
		t.Errorf("storage overrides not applied: %+v", cfg.Storage)
	}
	if cfg.Generation.Backend != "gemini" || cfg.Generation.Model != "gemini-test" {
		t.Errorf("generation overrides not applied: %+v", cfg.Generation)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadWorkspace_DotEnvAndPaths(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are set, even to "".
	os.Unsetenv("NEXUS_BACKEND")
	t.Cleanup(func() { os.Unsetenv("NEXUS_BACKEND") })

	ws := t.TempDir()
	if err := os.WriteFile(filepath.Join(ws, ".env"), []byte("NEXUS_BACKEND=gemini\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadWorkspace(ws)
	if err != nil {
		t.Fatalf("LoadWorkspace failed: %v", err)
	}
	if cfg.Generation.Backend != "gemini" {
		t.Errorf("expected .env backend, got %s", cfg.Generation.Backend)
	}
	if want := filepath.Join(ws, DirName, "state"); cfg.Storage.Path != want {
		t.Errorf("expected storage path %s, got %s", want, cfg.Storage.Path)
	}
	if !filepath.IsAbs(cfg.Logging.File) {
		t.Errorf("expected absolute log file, got %s", cfg.Logging.File)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Driver = "redis"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown driver")
	}

	cfg = DefaultConfig()
	cfg.Storage.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for missing path")
	}
	cfg.Storage.Driver = "memory"
	if err := cfg.Validate(); err != nil {
		t.Errorf("memory driver needs no path: %v", err)
	}

	cfg = DefaultConfig()
	cfg.Generation.Backend = "openai"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown backend")
	}

	cfg = DefaultConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown level")
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.GetReplyDelay() != 2*time.Second {
		t.Errorf("unexpected delay %v", cfg.GetReplyDelay())
	}
	if cfg.GetReplyTimeout() != 60*time.Second {
		t.Errorf("unexpected timeout %v", cfg.GetReplyTimeout())
	}

	cfg.Generation.Delay = "soon"
	cfg.Generation.Timeout = ""
	if cfg.GetReplyDelay() != 2*time.Second {
		t.Errorf("bad delay should fall back, got %v", cfg.GetReplyDelay())
	}
	if cfg.GetReplyTimeout() != 0 {
		t.Errorf("empty timeout should disable, got %v", cfg.GetReplyTimeout())
	}

	cfg.Generation.Delay = ""
	if cfg.GetReplyDelay() != DefaultReplyDelay {
		t.Errorf("unset delay should use the default, got %v", cfg.GetReplyDelay())
	}
	cfg.Generation.Delay = "0s"
	if cfg.GetReplyDelay() != 0 {
		t.Errorf("zero delay should pass through, got %v", cfg.GetReplyDelay())
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	c := LoggingConfig{}
	if !c.IsCategoryEnabled("chat") {
		t.Error("categories are enabled by default")
	}
	c.Categories = map[string]bool{"chat": false}
	if c.IsCategoryEnabled("chat") {
		t.Error("chat should be disabled")
	}
	if !c.IsCategoryEnabled("storage") {
		t.Error("unlisted category should be enabled")
	}
}

func TestFindWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, DirName), 0755); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(sub)

	got, err := FindWorkspaceRoot()
	if err != nil {
		t.Fatalf("FindWorkspaceRoot failed: %v", err)
	}
	want, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestConfig_GetStoragePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/data/state"
	if got := cfg.GetStoragePath(); got != "/data/state" {
		t.Errorf("file driver path changed: %s", got)
	}

	cfg.Storage.Driver = "sqlite"
	if got := cfg.GetStoragePath(); got != filepath.Join("/data/state", "nexus.db") {
		t.Errorf("unexpected sqlite path: %s", got)
	}

	cfg.Storage.Path = "/data/custom.sqlite"
	if got := cfg.GetStoragePath(); got != "/data/custom.sqlite" {
		t.Errorf("explicit sqlite file changed: %s", got)
	}
}
