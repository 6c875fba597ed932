package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// GameDir is the root directory containing the Projects subdirectory.
	// Empty means "use the platform default save-game location".
	GameDir string `yaml:"game_dir" mapstructure:"game_dir"`

	// Cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Log configuration
	Log LogConfig `yaml:"log"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(homeDir, ".nandscan", "cache.db"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("game_dir", cfg.GameDir)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("log", cfg.Log)

	v.SetEnvPrefix("NANDSCAN")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".nandscan")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".nandscan"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".nandscan", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if dir := os.Getenv("NANDSCAN_GAME_DIR"); dir != "" {
		cfg.GameDir = expandPath(dir)
	}
	if path := os.Getenv("NANDSCAN_CACHE_PATH"); path != "" {
		cfg.Cache.Path = expandPath(path)
	}
	if enabled := os.Getenv("NANDSCAN_CACHE_ENABLED"); enabled != "" {
		cfg.Cache.Enabled = enabled == "true" || enabled == "1"
	}
	if level := os.Getenv("NANDSCAN_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if file := os.Getenv("NANDSCAN_LOG_FILE"); file != "" {
		cfg.Log.File = expandPath(file)
	}
}

// ResolveGameDir returns the effective game directory: an explicit override
// wins, then the configured value, then the platform default.
func (c *Config) ResolveGameDir(override string) string {
	if override != "" {
		return expandPath(override)
	}
	if c.GameDir != "" {
		return c.GameDir
	}
	return DefaultGameDir()
}

// DefaultGameDir returns the platform-specific Digital-Logic-Sim save
// location. The simulator is a Unity game, hence the unity3d paths.
func DefaultGameDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("USERPROFILE"),
			"AppData", "LocalLow", "SebastianLague", "Digital-Logic-Sim")
	case "darwin":
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir,
			"Library", "Application Support", "unity3d", "SebastianLague", "Digital-Logic-Sim")
	default:
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir,
			".config", "unity3d", "SebastianLague", "Digital-Logic-Sim")
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
