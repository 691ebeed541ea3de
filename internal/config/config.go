// Package config loads application settings and ships the built-in hull and
// sea-state presets.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// App is the top-level application configuration.
type App struct {
	DataDir    string  `mapstructure:"data_dir"`
	ListenAddr string  `mapstructure:"listen_addr"`
	LogLevel   string  `mapstructure:"log_level"`
	Dt         float64 `mapstructure:"dt"`
	Damping    float64 `mapstructure:"damping_ratio"`
	WindowSec  float64 `mapstructure:"window_seconds"`
	ShipPreset string  `mapstructure:"ship_preset"`
	SeaPreset  string  `mapstructure:"sea_preset"`
	Seed       int64   `mapstructure:"seed"`
}

// Load reads the optional config file and applies defaults. An empty path
// yields the defaults; a malformed file is an error.
func Load(path string) (*App, error) {
	v := viper.New()
	v.SetDefault("data_dir", ".shipsim")
	v.SetDefault("listen_addr", ":8490")
	v.SetDefault("log_level", "info")
	v.SetDefault("dt", 0.05)
	v.SetDefault("damping_ratio", 0.1)
	v.SetDefault("window_seconds", 60.0)
	v.SetDefault("ship_preset", "coaster")
	v.SetDefault("sea_preset", "moderate")
	v.SetDefault("seed", int64(1))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var app App
	if err := v.Unmarshal(&app); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := app.validate(); err != nil {
		return nil, err
	}
	return &app, nil
}

func (a *App) validate() error {
	if a.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", a.Dt)
	}
	if a.Damping < 0 || a.Damping > 1 {
		return fmt.Errorf("config: damping_ratio %f outside [0,1]", a.Damping)
	}
	switch strings.ToLower(a.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", a.LogLevel)
	}
	return nil
}
