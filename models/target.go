package models

// Base-branch selection modes for a Target.
const (
	BaseModeDefaultOnly = "defaultOnly" // filter by the repo's default branch
	BaseModeAll         = "all"         // no branch filter
	BaseModeList        = "list"        // filter by Branches verbatim
)

// Target is one watched repository. Targets are supplied by configuration
// and immutable for the lifetime of that configuration.
type Target struct {
	Owner string `json:"owner" mapstructure:"owner" yaml:"owner"`
	Repo  string `json:"repo"  mapstructure:"repo"  yaml:"repo"`
	// Label overrides the repo name in display output.
	Label string `json:"label,omitempty" mapstructure:"label" yaml:"label,omitempty"`
	// BaseMode is defaultOnly (default), all, or list.
	BaseMode string `json:"baseMode,omitempty" mapstructure:"baseMode" yaml:"baseMode,omitempty"`
	// Branches is used when BaseMode is list.
	Branches []string `json:"branches,omitempty" mapstructure:"branches" yaml:"branches,omitempty"`
	// DefaultBranch, when set, skips the repository-metadata lookup.
	DefaultBranch string `json:"defaultBranch,omitempty" mapstructure:"defaultBranch" yaml:"defaultBranch,omitempty"`
}

// DisplayLabel returns the label to show for this target's rows.
func (t Target) DisplayLabel() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Repo
}
