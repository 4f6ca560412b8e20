package aggregate

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v68/github"
	"github.com/pullwatch/pullwatch/internal/config"
	"golang.org/x/oauth2"
)

const requestTimeout = 15 * time.Second

// newHTTPClient returns the transport for one run: a plain client when no
// credential resolved, otherwise one that attaches the bearer token.
func newHTTPClient(ctx context.Context, token string) *http.Client {
	base := &http.Client{Timeout: requestTimeout}
	if token == "" {
		return base
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = requestTimeout
	return tc
}

// newMetadataClient builds the go-github client used for repository
// metadata lookups, pointed at the configured API origin.
func newMetadataClient(hc *http.Client, baseURL string) *gogithub.Client {
	gh := gogithub.NewClient(hc)
	if baseURL != "" && baseURL != config.DefaultAPIBaseURL {
		if u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/"); err == nil {
			gh.BaseURL = u
		}
	}
	return gh
}
