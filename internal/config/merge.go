package config

import "github.com/pullwatch/pullwatch/models"

// Overrides is the partial configuration a display instance sends when it
// registers. Nil fields mean "keep the base value". Only the keys listed
// here are recognised; there is no dynamic key copying.
type Overrides struct {
	Token              *string         `json:"token,omitempty"`
	TokenEnvVar        *string         `json:"tokenEnvVar,omitempty"`
	APIBaseURL         *string         `json:"apiBaseUrl,omitempty"`
	Targets            []models.Target `json:"targets,omitempty"`
	State              *string         `json:"state,omitempty"`
	IncludeDrafts      *bool           `json:"includeDrafts,omitempty"`
	MaxTotal           *int            `json:"maxTotal,omitempty"`
	MaxPerRepo         *int            `json:"maxPerRepo,omitempty"`
	UpdateIntervalMs   *int            `json:"updateIntervalMs,omitempty"`
	BackoffOnRateLimit *bool           `json:"backoffOnRateLimit,omitempty"`
	ShowOnAuthError    *bool           `json:"showOnAuthError,omitempty"`
}

// Merge applies o over base and returns the result, clamped. It is pure:
// neither input is modified, and every combination of inputs yields a
// usable Config.
func Merge(base Config, o *Overrides) Config {
	out := base
	out.Targets = append([]models.Target(nil), base.Targets...)
	if o == nil {
		out.clamp()
		return out
	}
	if o.Token != nil {
		out.Auth.Token = *o.Token
	}
	if o.TokenEnvVar != nil {
		out.Auth.TokenEnvVar = *o.TokenEnvVar
	}
	if o.APIBaseURL != nil {
		out.Auth.APIBaseURL = *o.APIBaseURL
	}
	if o.Targets != nil {
		out.Targets = append([]models.Target(nil), o.Targets...)
	}
	if o.State != nil {
		out.Query.State = *o.State
	}
	if o.IncludeDrafts != nil {
		out.Query.IncludeDrafts = *o.IncludeDrafts
	}
	if o.MaxTotal != nil {
		out.Limits.MaxTotal = *o.MaxTotal
	}
	if o.MaxPerRepo != nil {
		out.Limits.MaxPerRepo = *o.MaxPerRepo
	}
	if o.UpdateIntervalMs != nil {
		out.Refresh.UpdateIntervalMs = *o.UpdateIntervalMs
	}
	if o.BackoffOnRateLimit != nil {
		out.Refresh.BackoffOnRateLimit = *o.BackoffOnRateLimit
	}
	if o.ShowOnAuthError != nil {
		out.Alerts.ShowOnAuthError = *o.ShowOnAuthError
	}
	out.clamp()
	return out
}
