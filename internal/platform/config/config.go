package config

import (
	"time"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Device  DeviceConfig  `yaml:"device"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DeviceConfig describes the install this client runs on. Platform matches
// the values the backend accepts for push registration.
type DeviceConfig struct {
	Platform string `yaml:"platform"`
	Name     string `yaml:"name,omitempty"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir,omitempty"`
	File  string `yaml:"log_file,omitempty"`
}

const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)
