package models

import "time"

// Author identifies the user who opened a pull request.
type Author struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// PullRequest is one row of engine output: a pull request summary assembled
// from a list-view payload plus its detail-view counts. Records are built
// fresh on every aggregation run and never mutated afterwards.
type PullRequest struct {
	Owner        string    `json:"owner"`
	Repo         string    `json:"repo"`
	Label        string    `json:"label"` // target display label, else repo name
	Number       int       `json:"number"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Author       Author    `json:"author"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	ChangedFiles int       `json:"changed_files"`
	Draft        bool      `json:"draft"`
	BaseBranch   string    `json:"base_branch"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
