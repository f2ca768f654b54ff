package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoad_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), configName)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file not written: %v", err)
	}

	want := getDefaultConfig()
	if c.Remote.BaseURL != want.Remote.BaseURL {
		t.Errorf("BaseURL = %q, want %q", c.Remote.BaseURL, want.Remote.BaseURL)
	}
	if c.Clipboard.FileList != "auto" {
		t.Errorf("FileList = %q, want auto", c.Clipboard.FileList)
	}
	if c.Logging.MaxSizeMB != 100 || !c.Logging.Compress {
		t.Errorf("logging defaults not applied: %+v", c.Logging)
	}
}

func TestLoad_ReadsFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), configName)
	content := `
logging:
  level: debug
clipboard:
  file_list: disabled
remote:
  base_url: http://localhost:9000
  header_prefix: ModelScope-
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", c.Logging.Level)
	}
	if c.Clipboard.FileList != "disabled" {
		t.Errorf("FileList = %q, want disabled", c.Clipboard.FileList)
	}
	if c.Remote.BaseURL != "http://localhost:9000" || c.Remote.HeaderPrefix != "ModelScope-" {
		t.Errorf("remote = %+v", c.Remote)
	}
	// keys missing from the file keep their defaults
	if c.Window.Width != 1280 {
		t.Errorf("Window.Width = %d, want 1280", c.Window.Width)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), configName)
	if err := os.WriteFile(path, []byte("remote:\n  base_url: http://file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HENJI_REMOTE_BASE_URL", "http://env")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Remote.BaseURL != "http://env" {
		t.Errorf("BaseURL = %q, want http://env", c.Remote.BaseURL)
	}
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), configName)
	if err := os.WriteFile(path, []byte("logging:\n  level: warn\n  file_path: /from/file.log\n"), 0600); err != nil {
		t.Fatal(err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	defer func() { flags = nil }()
	if err := fs.Parse([]string{"--log-level", "debug"}); err != nil {
		t.Fatal(err)
	}

	c, err := load(path, fs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", c.Logging.Level)
	}
	if c.Logging.FilePath != "/from/file.log" {
		t.Errorf("unset flag shadowed file value: %q", c.Logging.FilePath)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), configName)
	if err := os.WriteFile(path, []byte("logging: [unterminated"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestGetConfigFilePath_Default(t *testing.T) {
	if cfgPath != "" {
		t.Skip("config already initialised in this process")
	}
	p := GetConfigFilePath()
	if p != "" && filepath.Base(p) != configName {
		t.Errorf("GetConfigFilePath() = %q", p)
	}
}

func resetGlobals() {
	cfg = nil
	cfgPath = ""
	flags = nil
	once = sync.Once{}
}

func TestInit_ConfigFlagAndOnce(t *testing.T) {
	resetGlobals()
	defer resetGlobals()

	path := filepath.Join(t.TempDir(), "nested", "custom.yaml")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	if err := fs.Parse([]string{"--config", path, "--log-level", "debug"}); err != nil {
		t.Fatal(err)
	}

	if err := Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := GetConfigFilePath(); got != path {
		t.Errorf("GetConfigFilePath() = %q, want %q", got, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not written: %v", err)
	}
	if GetConfig().Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", GetConfig().Logging.Level)
	}

	other := filepath.Join(t.TempDir(), "other.yaml")
	if err := Init(other); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if got := GetConfigFilePath(); got != path {
		t.Errorf("second Init changed path to %q", got)
	}
	if _, err := os.Stat(other); !os.IsNotExist(err) {
		t.Errorf("second Init touched %s", other)
	}
}
