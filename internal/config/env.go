package config

import (
	"strings"

	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// bindDefaults registers every key with viper so AutomaticEnv can
// override keys that never appear in the config file.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.protocol", cfg.Server.Protocol)
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.path", cfg.Server.Path)

	v.SetDefault("client.name", cfg.Client.Name)
	v.SetDefault("client.device", cfg.Client.Device)
	v.SetDefault("client.device_id", cfg.Client.DeviceID)
	v.SetDefault("client.version", cfg.Client.Version)
	v.SetDefault("client.language", cfg.Client.Language)

	v.SetDefault("video.max_streaming_bitrate", cfg.Video.MaxStreamingBitrate)

	v.SetDefault("sync.latest_concurrency", cfg.Sync.LatestConcurrency)
	v.SetDefault("sync.request_timeout", cfg.Sync.RequestTimeout)
	v.SetDefault("sync.max_retries", cfg.Sync.MaxRetries)

	v.SetDefault("store.path", cfg.Store.Path)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)

	v.SetDefault("metrics.addr", cfg.Metrics.Addr)
}
