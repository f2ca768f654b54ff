package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Clipboard ClipboardConfig `yaml:"clipboard" mapstructure:"clipboard"`
	Remote    RemoteConfig    `yaml:"remote" mapstructure:"remote"`
	Window    WindowConfig    `yaml:"window" mapstructure:"window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`
	FilePath    string `yaml:"file_path" mapstructure:"file_path"` // empty logs to stderr
	Development bool   `yaml:"development" mapstructure:"development"`
	MaxSizeMB   int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups  int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays  int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress    bool   `yaml:"compress" mapstructure:"compress"`
}

// StorageConfig holds local media storage settings.
type StorageConfig struct {
	// MediaDir overrides the default <local data>/Henji-AI/Media location.
	MediaDir string `yaml:"media_dir" mapstructure:"media_dir"`
}

// ClipboardConfig selects clipboard capabilities.
type ClipboardConfig struct {
	// FileList is "auto" (native file-drop reading where the OS supports it)
	// or "disabled".
	FileList string `yaml:"file_list" mapstructure:"file_list"`
}

// RemoteConfig holds settings for the image-generation API.
type RemoteConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	HeaderPrefix string `yaml:"header_prefix" mapstructure:"header_prefix"`
}

// WindowConfig holds host window settings.
type WindowConfig struct {
	Title     string `yaml:"title" mapstructure:"title"`
	Width     int    `yaml:"width" mapstructure:"width"`
	Height    int    `yaml:"height" mapstructure:"height"`
	Maximised bool   `yaml:"maximised" mapstructure:"maximised"`
}

var (
	cfg     *Config
	once    sync.Once
	cfgLock = &sync.Mutex{}
	cfgPath string // Stores the path to the config file
	flags   *pflag.FlagSet
)

const (
	configName = "config.yaml"
	// AppName names the per-user config and data directories.
	AppName   = "Henji-AI"
	envPrefix = "HENJI"
)

// BindFlags registers the command-line overrides on fs. Flags that are set
// take precedence over the file and the environment.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to config.yaml")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-file", "", "log file path (empty logs to stderr)")
	flags = fs
}

// Init initializes the configuration. When path is empty the file is looked
// up in the user's config directory. Loading happens only once.
func Init(path string) error {
	var initErr error
	once.Do(func() {
		if path == "" && flags != nil {
			path, _ = flags.GetString("config")
		}
		if path == "" {
			userConfigDir, err := os.UserConfigDir()
			if err != nil {
				initErr = fmt.Errorf("failed to get user config directory: %w", err)
				return
			}
			path = filepath.Join(userConfigDir, AppName, configName)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil { // 0750: user rwx, group rx, other ---
			initErr = fmt.Errorf("failed to create app config directory '%s': %w", filepath.Dir(path), err)
			return
		}

		cfgPath = path
		loadedCfg, err := load(path, flags)
		if err != nil {
			initErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		cfg = loadedCfg
	})
	return initErr
}

// Load reads the configuration at filePath, creating it with defaults if it
// doesn't exist. Environment variables prefixed with HENJI_ override file
// values (HENJI_REMOTE_BASE_URL, HENJI_LOGGING_LEVEL, ...).
func Load(filePath string) (*Config, error) {
	return load(filePath, nil)
}

func load(filePath string, fs *pflag.FlagSet) (*Config, error) {
	cfgLock.Lock()
	defer cfgLock.Unlock()

	defaults := getDefaultConfig()

	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		if errSave := saveConfigToFile(filePath, defaults); errSave != nil {
			return nil, fmt.Errorf("failed to save default config to '%s': %w", filePath, errSave)
		}
	} else if err != nil {
		return nil, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	v := viper.New()
	v.SetConfigFile(filePath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, defaults)

	if fs != nil {
		bindFlag(v, fs, "logging.level", "log-level")
		bindFlag(v, fs, "logging.file_path", "log-file")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filePath, err)
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config from '%s': %w", filePath, err)
	}
	return c, nil
}

// bindFlag binds the flag only when it was set, so an unset flag's empty
// default never shadows the file.
func bindFlag(v *viper.Viper, fs *pflag.FlagSet, key, name string) {
	if f := fs.Lookup(name); f != nil && f.Changed {
		_ = v.BindPFlag(key, f)
	}
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("logging.level", c.Logging.Level)
	v.SetDefault("logging.file_path", c.Logging.FilePath)
	v.SetDefault("logging.development", c.Logging.Development)
	v.SetDefault("logging.max_size_mb", c.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", c.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", c.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", c.Logging.Compress)
	v.SetDefault("storage.media_dir", c.Storage.MediaDir)
	v.SetDefault("clipboard.file_list", c.Clipboard.FileList)
	v.SetDefault("remote.base_url", c.Remote.BaseURL)
	v.SetDefault("remote.header_prefix", c.Remote.HeaderPrefix)
	v.SetDefault("window.title", c.Window.Title)
	v.SetDefault("window.width", c.Window.Width)
	v.SetDefault("window.height", c.Window.Height)
	v.SetDefault("window.maximised", c.Window.Maximised)
}

// saveConfigToFile saves the configuration to the given path.
func saveConfigToFile(filePath string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// Write with 0600 permissions: user rw, group ---, other ---
	return os.WriteFile(filePath, data, 0600)
}

// GetConfig returns the loaded configuration.
// It panics if Init() has not been called successfully.
func GetConfig() *Config {
	if cfg == nil {
		panic("configuration not initialized; call config.Init() first")
	}
	return cfg
}

// getDefaultConfig returns a Config struct with default values.
func getDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			FilePath:   "",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Clipboard: ClipboardConfig{
			FileList: "auto",
		},
		Remote: RemoteConfig{
			BaseURL: "https://api-inference.modelscope.cn",
		},
		Window: WindowConfig{
			Title:     "Henji AI",
			Width:     1280,
			Height:    800,
			Maximised: true,
		},
	}
}

// GetConfigFilePath returns the path to the configuration file.
func GetConfigFilePath() string {
	if cfgPath == "" {
		userConfigDir, err := os.UserConfigDir()
		if err != nil {
			return "" // Cannot determine
		}
		return filepath.Join(userConfigDir, AppName, configName)
	}
	return cfgPath
}
