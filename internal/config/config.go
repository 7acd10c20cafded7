// Package config loads runtime settings from defaults, an optional config
// file, a .env file and GOSLOPE_* environment variables (in increasing
// order of precedence).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/alexiusacademia/goslope/internal/bishop"
)

// EnvPrefix is prepended to every environment variable key
const EnvPrefix = "GOSLOPE"

// Config holds all runtime settings
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Limit  LimitConfig  `mapstructure:"limit"`
	Solver SolverConfig `mapstructure:"solver"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// StoreConfig configures the analysis history database
type StoreConfig struct {
	Path string `mapstructure:"path"` // empty disables history
}

// LimitConfig configures per-client request rate limiting
type LimitConfig struct {
	Rate  float64 `mapstructure:"rate"`  // requests per second
	Burst int     `mapstructure:"burst"` // bucket size
}

// SolverConfig overrides discretization and iteration defaults
type SolverConfig struct {
	Slices        int     `mapstructure:"slices"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Tolerance     float64 `mapstructure:"tolerance"`
}

// Options converts the solver settings to bishop options
func (s SolverConfig) Options() bishop.Options {
	return bishop.Options{
		Slices:        s.Slices,
		MaxIterations: s.MaxIterations,
		Tolerance:     s.Tolerance,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("store.path", "goslope.db")
	v.SetDefault("limit.rate", 5.0)
	v.SetDefault("limit.burst", 10)
	v.SetDefault("solver.slices", bishop.DefaultSlices)
	v.SetDefault("solver.max_iterations", bishop.DefaultMaxIterations)
	v.SetDefault("solver.tolerance", bishop.DefaultTolerance)
}

// Load reads the configuration. configFile may be empty. A missing .env
// file in the working directory is not an error.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Limit.Rate <= 0 {
		return fmt.Errorf("limit.rate must be positive")
	}
	if c.Limit.Burst <= 0 {
		return fmt.Errorf("limit.burst must be positive")
	}
	if c.Solver.Slices < 0 || c.Solver.MaxIterations < 0 || c.Solver.Tolerance < 0 {
		return fmt.Errorf("solver settings must not be negative")
	}
	return nil
}
