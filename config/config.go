package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	Port string `yaml:"port" toml:"port"`

	// Snapshot directory for the dictionary and cue weights
	DataDir string `yaml:"data_dir" toml:"data_dir"`

	// Dictionary text files loaded at start, optionally watched for changes
	DictionaryGlob  string `yaml:"dictionary_glob" toml:"dictionary_glob"`
	WatchDictionary bool   `yaml:"watch_dictionary" toml:"watch_dictionary"`

	// Logging
	LogFile  string `yaml:"log_file" toml:"log_file"`
	LogLevel string `yaml:"log_level" toml:"log_level"`

	Analyzer AnalyzerSettings `yaml:"analyzer" toml:"analyzer"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() Config {
	cfg := Config{
		Port:     "8080",
		DataDir:  "./data",
		LogFile:  filepath.Join(os.TempDir(), "dream_engine.log"),
		LogLevel: "INFO",
	}
	cfg.Analyzer.ApplyDefaults()
	return cfg
}

// Load builds the configuration from defaults, then the file at path (when
// not empty), then DREAM_* environment variables.
// Files ending in .yaml or .yml are decoded as YAML and .toml as TOML.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	cfg.Analyzer.ApplyDefaults()

	if errs := cfg.Analyzer.Validate(); len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid analyzer settings: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, cfg)
	case ".toml":
		err = toml.Unmarshal(raw, cfg)
	default:
		return fmt.Errorf("unsupported config file type %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("DREAM_PORT", cfg.Port)
	cfg.DataDir = getEnv("DREAM_DATA_DIR", cfg.DataDir)
	cfg.LogFile = getEnv("DREAM_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = getEnv("DREAM_LOG_LEVEL", cfg.LogLevel)
	cfg.DictionaryGlob = getEnv("DREAM_DICTIONARY_GLOB", cfg.DictionaryGlob)
	if v := os.Getenv("DREAM_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.WatchDictionary = b
		}
	}
}

// Level returns the parsed log level.
func (c Config) Level() slog.Level {
	return ParseLogLevel(c.LogLevel)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// ParseLogLevel maps a level name to a slog level. Unknown names map to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
