package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	DefaultConfigDir  = ".pullwatch"
	DefaultConfigFile = "config.yaml"

	DefaultAPIBaseURL  = "https://api.github.com"
	DefaultTokenEnvVar = "GITHUB_TOKEN"
	DefaultState       = "open"
	DefaultMaxTotal    = 20
	DefaultMaxPerRepo  = 10
	DefaultIntervalMs  = 300000
)

// Default returns the out-of-the-box configuration.
func Default() Config {
	return Config{
		Auth: AuthConfig{
			TokenEnvVar: DefaultTokenEnvVar,
			APIBaseURL:  DefaultAPIBaseURL,
		},
		Query: QueryConfig{
			State:         DefaultState,
			IncludeDrafts: true,
		},
		Limits: LimitsConfig{
			MaxTotal:   DefaultMaxTotal,
			MaxPerRepo: DefaultMaxPerRepo,
		},
		Refresh: RefreshConfig{
			UpdateIntervalMs:   DefaultIntervalMs,
			BackoffOnRateLimit: true,
		},
		Alerts: AlertsConfig{
			ShowOnAuthError: true,
		},
	}
}

// Load reads the YAML config file (absent file is fine, defaults apply)
// and returns a populated, clamped Config. configPath may override the
// default ~/.pullwatch/config.yaml location.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(home, DefaultConfigDir))
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config file yet, defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.clamp()
	return &cfg, nil
}

// ConfigPath returns the effective config file path.
func ConfigPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// setDefaults registers every recognised key with its default value.
func setDefaults(v *viper.Viper) {
	v.SetDefault("auth.token", "")
	v.SetDefault("auth.tokenEnvVar", DefaultTokenEnvVar)
	v.SetDefault("auth.apiBaseUrl", DefaultAPIBaseURL)
	v.SetDefault("query.state", DefaultState)
	v.SetDefault("query.includeDrafts", true)
	v.SetDefault("limits.maxTotal", DefaultMaxTotal)
	v.SetDefault("limits.maxPerRepo", DefaultMaxPerRepo)
	v.SetDefault("refresh.updateIntervalMs", DefaultIntervalMs)
	v.SetDefault("refresh.backoffOnRateLimit", true)
	v.SetDefault("alerts.showOnAuthError", true)
}

// clamp replaces invalid values with defaults rather than passing them
// through. Zero and negative limits or intervals would wedge the engine.
func (c *Config) clamp() {
	if c.Auth.APIBaseURL == "" {
		c.Auth.APIBaseURL = DefaultAPIBaseURL
	}
	if c.Auth.TokenEnvVar == "" {
		c.Auth.TokenEnvVar = DefaultTokenEnvVar
	}
	if c.Query.State == "" {
		c.Query.State = DefaultState
	}
	if c.Limits.MaxTotal <= 0 {
		c.Limits.MaxTotal = DefaultMaxTotal
	}
	if c.Limits.MaxPerRepo <= 0 {
		c.Limits.MaxPerRepo = DefaultMaxPerRepo
	}
	if c.Refresh.UpdateIntervalMs <= 0 {
		c.Refresh.UpdateIntervalMs = DefaultIntervalMs
	}
}
