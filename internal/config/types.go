package config

import "time"

// Config is the on-disk configuration for the CLI, dashboard and dev service.
type Config struct {
	API         APIConfig    `yaml:"api"`
	Cities      []string     `yaml:"cities" validate:"min=1,dive,required"`
	DefaultCity string       `yaml:"default_city"`
	Alerts      AlertsConfig `yaml:"alerts"`
	Log         LogConfig    `yaml:"log"`
	Server      ServerConfig `yaml:"server"`
}

// APIConfig points at the alerts service.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" validate:"required,http_url"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	UserAgent string        `yaml:"user_agent"`
}

// AlertsConfig tunes the alerts page.
type AlertsConfig struct {
	SuccessFlash time.Duration `yaml:"success_flash" validate:"gte=0"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Level         string `yaml:"level" validate:"oneof=trace debug info warn error"`
	HumanReadable bool   `yaml:"human_readable"`
}

// ServerConfig configures `weatherlens serve`.
type ServerConfig struct {
	Addr   string `yaml:"addr" validate:"required"`
	DBPath string `yaml:"db_path" validate:"required"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8080",
			Timeout:   10 * time.Second,
			UserAgent: "weatherlens",
		},
		Cities:      []string{"Delhi", "Mumbai", "Pune", "Bangalore", "Chennai", "Kolkata", "Hyderabad"},
		DefaultCity: "Delhi",
		Alerts: AlertsConfig{
			SuccessFlash: 2 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:   ":8080",
			DBPath: "alerts.db",
		},
	}
}

// HasCity reports whether city is one of the configured cities.
func (c *Config) HasCity(city string) bool {
	for _, candidate := range c.Cities {
		if candidate == city {
			return true
		}
	}
	return false
}
