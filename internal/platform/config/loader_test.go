package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoader_Load(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")

	configContent := `
api:
  base_url: "https://fitness.example.com"
  timeout: 5s
device:
  platform: "ios"
  name: "test phone"
storage:
  driver: "memory"
log:
  log_level: "DEBUG"
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	result, err := NewLoader(configFile).WithDotEnv(false).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg := result.Config

	if cfg.API.BaseURL != "https://fitness.example.com" {
		t.Errorf("expected base url from file, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Device.Platform != PlatformIOS {
		t.Errorf("expected ios platform, got %s", cfg.Device.Platform)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("expected memory storage driver, got %s", cfg.Storage.Driver)
	}
	if cfg.Log.Level != "DEBUG" {
		t.Errorf("expected log level DEBUG, got %s", cfg.Log.Level)
	}
}

func TestLoader_Defaults(t *testing.T) {
	result, err := NewLoader("").WithDotEnv(false).Load()
	if err != nil {
		t.Fatalf("failed to load defaults: %v", err)
	}
	def := DefaultConfig()
	if result.Config.API.BaseURL != def.API.BaseURL {
		t.Errorf("expected default base url, got %s", result.Config.API.BaseURL)
	}
	if result.Config.Storage.Driver != def.Storage.Driver {
		t.Errorf("expected default storage driver, got %s", result.Config.Storage.Driver)
	}
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("FITNESS_API_BASE_URL", "https://override.example.com")
	t.Setenv("FITNESS_DEVICE_PLATFORM", "ios")

	result, err := NewLoader("").WithDotEnv(false).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if result.Config.API.BaseURL != "https://override.example.com" {
		t.Errorf("expected env override base url, got %s", result.Config.API.BaseURL)
	}
	if result.Config.Device.Platform != PlatformIOS {
		t.Errorf("expected env override platform, got %s", result.Config.Device.Platform)
	}
}

func TestLoader_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				API:    APIConfig{BaseURL: "http://localhost:8000", Timeout: time.Second},
				Device: DeviceConfig{Platform: PlatformAndroid},
			},
			wantErr: false,
		},
		{
			name: "missing base url",
			config: &Config{
				Device: DeviceConfig{Platform: PlatformAndroid},
			},
			wantErr: true,
		},
		{
			name: "unsupported platform",
			config: &Config{
				API:    APIConfig{BaseURL: "http://localhost:8000"},
				Device: DeviceConfig{Platform: "blackberry"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
