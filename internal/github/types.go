package github

import "time"

// Pull is the wire shape of a pull request as returned by the GitHub REST
// API. List-view payloads leave the line/file counts at zero; only the
// single-PR detail endpoint populates them.
type Pull struct {
	Number       int       `json:"number"`
	Title        string    `json:"title"`
	HTMLURL      string    `json:"html_url"`
	State        string    `json:"state"`
	Draft        bool      `json:"draft"`
	User         *User     `json:"user"`
	Base         Ref       `json:"base"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	ChangedFiles int       `json:"changed_files"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// User is the author identity attached to a pull request.
type User struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Ref is a branch reference on a pull request.
type Ref struct {
	Ref string `json:"ref"`
}
