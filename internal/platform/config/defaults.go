package config

import "time"

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 15 * time.Second,
		},
		Device: DeviceConfig{
			Platform: PlatformAndroid,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "data/fitnessai.db",
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "client.log",
		},
	}
}
