package config

import (
	"os"
	"strings"
	"time"

	"github.com/pullwatch/pullwatch/models"
)

// Config is the fully resolved configuration the engine runs with. Every
// field is concrete; partial input is applied through Merge.
type Config struct {
	Auth    AuthConfig      `mapstructure:"auth"    yaml:"auth"`
	Targets []models.Target `mapstructure:"targets" yaml:"targets"`
	Query   QueryConfig     `mapstructure:"query"   yaml:"query"`
	Limits  LimitsConfig    `mapstructure:"limits"  yaml:"limits"`
	Refresh RefreshConfig   `mapstructure:"refresh" yaml:"refresh"`
	Alerts  AlertsConfig    `mapstructure:"alerts"  yaml:"alerts"`
}

// AuthConfig controls credential resolution and the API origin.
type AuthConfig struct {
	Token string `mapstructure:"token" yaml:"token,omitempty"`
	// TokenEnvVar names the environment variable consulted when Token is empty.
	TokenEnvVar string `mapstructure:"tokenEnvVar" yaml:"tokenEnvVar"`
	APIBaseURL  string `mapstructure:"apiBaseUrl"  yaml:"apiBaseUrl"`
}

// QueryConfig filters which pull requests are listed.
type QueryConfig struct {
	// State is the pull-request state filter (open, closed, all).
	State         string `mapstructure:"state"         yaml:"state"`
	IncludeDrafts bool   `mapstructure:"includeDrafts" yaml:"includeDrafts"`
}

// LimitsConfig bounds the output list.
type LimitsConfig struct {
	// MaxTotal caps the merged list across all targets.
	MaxTotal int `mapstructure:"maxTotal" yaml:"maxTotal"`
	// MaxPerRepo caps each target's contribution before the merge.
	MaxPerRepo int `mapstructure:"maxPerRepo" yaml:"maxPerRepo"`
}

// RefreshConfig controls the poll period and rate-limit behaviour.
type RefreshConfig struct {
	UpdateIntervalMs   int  `mapstructure:"updateIntervalMs"   yaml:"updateIntervalMs"`
	BackoffOnRateLimit bool `mapstructure:"backoffOnRateLimit" yaml:"backoffOnRateLimit"`
}

// AlertsConfig controls which failures are surfaced to the display layer.
type AlertsConfig struct {
	ShowOnAuthError bool `mapstructure:"showOnAuthError" yaml:"showOnAuthError"`
}

// Interval returns the poll period. It also serves as the cache TTL: a
// payload fetched within one poll period is reused as-is, anything older
// is revalidated with its entity tag.
func (r RefreshConfig) Interval() time.Duration {
	return time.Duration(r.UpdateIntervalMs) * time.Millisecond
}

// ResolveToken returns the effective bearer credential: the explicit token
// (trimmed) wins, then the named environment variable, then empty string
// meaning unauthenticated.
func (a AuthConfig) ResolveToken() string {
	if tok := strings.TrimSpace(a.Token); tok != "" {
		return tok
	}
	if a.TokenEnvVar != "" {
		return strings.TrimSpace(os.Getenv(a.TokenEnvVar))
	}
	return ""
}
