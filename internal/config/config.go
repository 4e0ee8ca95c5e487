package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mmcdole/iplay/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Client  ClientConfig  `mapstructure:"client"`
	Video   VideoConfig   `mapstructure:"video"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig is the default endpoint offered at login
type ServerConfig struct {
	Protocol string `mapstructure:"protocol"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Path     string `mapstructure:"path"`
}

// ClientConfig holds the identification sent with every request
type ClientConfig struct {
	Name     string `mapstructure:"name"`
	Device   string `mapstructure:"device"`
	DeviceID string `mapstructure:"device_id"`
	Version  string `mapstructure:"version"`
	Language string `mapstructure:"language"` // X-Emby-Language
}

// VideoConfig holds playback preferences
type VideoConfig struct {
	MaxStreamingBitrate int `mapstructure:"max_streaming_bitrate"`
}

// SyncConfig tunes remote calls
type SyncConfig struct {
	LatestConcurrency int           `mapstructure:"latest_concurrency"` // Parallel latest-media requests
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	MaxRetries        int           `mapstructure:"max_retries"` // Retries on 5xx
}

// StoreConfig holds durable storage configuration
type StoreConfig struct {
	Path string `mapstructure:"path"` // Empty means memory-only
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// MetricsConfig holds the optional Prometheus listener
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // e.g. ":9464"; empty disables
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Protocol: "http",
			Port:     8096,
		},
		Client: ClientConfig{
			Name:     "iPlay",
			Device:   "CLI",
			DeviceID: "iplay-cli-client",
			Version:  "1.0.0",
			Language: "zh-cn",
		},
		Video: VideoConfig{
			MaxStreamingBitrate: 140000000,
		},
		Sync: SyncConfig{
			LatestConcurrency: 8,
			RequestTimeout:    60 * time.Second,
			MaxRetries:        3,
		},
		Store: StoreConfig{
			Path: defaultStorePath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// Endpoint converts the server section into a domain endpoint
func (s ServerConfig) Endpoint() domain.Endpoint {
	return domain.Endpoint{
		Protocol: s.Protocol,
		Host:     s.Host,
		Port:     s.Port,
		Path:     s.Path,
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "iplay", "iplay.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "iplay", "iplay.log")
	}
}

// defaultStorePath returns the default bbolt database path for the current OS
func defaultStorePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "iplay", "iplay.db")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "iplay", "iplay.db")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "iplay")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "iplay")
	}
}

// LoadConfig loads configuration from file and environment.
// An explicit path wins over the default search locations.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (IPLAY_SERVER_HOST, IPLAY_LOGGING_LEVEL, ...)
	v.SetEnvPrefix("IPLAY")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Sync.LatestConcurrency <= 0 {
		cfg.Sync.LatestConcurrency = 1
	}

	return cfg, nil
}

// SaveConfig writes the server and client sections back to the config file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	// Set fields individually to ensure snake_case key names
	v.Set("server.protocol", cfg.Server.Protocol)
	v.Set("server.host", cfg.Server.Host)
	v.Set("server.port", cfg.Server.Port)
	v.Set("server.path", cfg.Server.Path)

	v.Set("client.name", cfg.Client.Name)
	v.Set("client.device", cfg.Client.Device)
	v.Set("client.device_id", cfg.Client.DeviceID)
	v.Set("client.version", cfg.Client.Version)
	v.Set("client.language", cfg.Client.Language)

	v.Set("video.max_streaming_bitrate", cfg.Video.MaxStreamingBitrate)

	v.Set("sync.latest_concurrency", cfg.Sync.LatestConcurrency)
	v.Set("sync.request_timeout", cfg.Sync.RequestTimeout.String())
	v.Set("sync.max_retries", cfg.Sync.MaxRetries)

	v.Set("store.path", cfg.Store.Path)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	v.Set("metrics.addr", cfg.Metrics.Addr)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
