// Package github is a conditional-request client for the GitHub REST API.
// Every page and detail resource is cached with its entity tag; a stale
// entry is revalidated with If-None-Match rather than refetched, and a
// 304 Not Modified answer is a first-class outcome that only bumps the
// entry's freshness timestamp. Rate-limit headers from every response are
// fed to the shared guard.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pullwatch/pullwatch/internal/httpcache"
	"github.com/pullwatch/pullwatch/internal/ratelimit"
)

const perPage = 100

// APIError is a non-2xx, non-304 response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: HTTP %d: %s", e.StatusCode, e.Body)
}

// Client lists and fetches pull requests through the cache. The http.Client
// carries the bearer credential (oauth2 transport) when one is configured.
type Client struct {
	http    *http.Client
	baseURL string
	cache   *httpcache.Cache
	guard   *ratelimit.Guard
	now     func() time.Time
}

func NewClient(hc *http.Client, baseURL string, cache *httpcache.Cache, guard *ratelimit.Guard) *Client {
	return &Client{
		http:    hc,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cache:   cache,
		guard:   guard,
		now:     time.Now,
	}
}

// ListPulls returns all pages of open pull requests for owner/repo,
// concatenated in page order. branch filters by base branch; pass "" for
// an unfiltered list. Each page is cached under its own key so a fresh
// page never costs a network call and a stale one revalidates alone.
func (c *Client) ListPulls(ctx context.Context, owner, repo, branch, state string, ttl time.Duration) ([]Pull, error) {
	q := url.Values{}
	q.Set("state", state)
	q.Set("per_page", fmt.Sprintf("%d", perPage))
	branchKey := "all"
	if branch != "" {
		q.Set("base", branch)
		branchKey = branch
	}
	pageURL := fmt.Sprintf("%s/repos/%s/%s/pulls?%s", c.baseURL, owner, repo, q.Encode())
	keyPrefix := fmt.Sprintf("pulls:%s/%s:%s:%s", owner, repo, branchKey, state)

	var all []Pull
	for page := 1; pageURL != ""; page++ {
		key := fmt.Sprintf("%s:page:%d", keyPrefix, page)
		payload, next, err := c.fetch(ctx, pageURL, key, ttl)
		if err != nil {
			return nil, err
		}
		var pulls []Pull
		if err := json.Unmarshal(payload, &pulls); err != nil {
			return nil, fmt.Errorf("github: decode pulls page %d for %s/%s: %w", page, owner, repo, err)
		}
		all = append(all, pulls...)
		pageURL = next

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return all, nil
}

// GetPull fetches the detail view of a single pull request, which carries
// the authoritative addition/deletion/changed-file counts.
func (c *Client) GetPull(ctx context.Context, owner, repo string, number int, ttl time.Duration) (*Pull, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, number)
	key := fmt.Sprintf("pull:%s/%s:%d", owner, repo, number)
	payload, _, err := c.fetch(ctx, u, key, ttl)
	if err != nil {
		return nil, err
	}
	var pull Pull
	if err := json.Unmarshal(payload, &pull); err != nil {
		return nil, fmt.Errorf("github: decode pull %s/%s#%d: %w", owner, repo, number, err)
	}
	return &pull, nil
}

// fetch resolves one resource through the cache: fresh entries are served
// directly, stale ones are revalidated with their validator, and anything
// else is fetched and stored. Returns the payload and the next-page link.
func (c *Client) fetch(ctx context.Context, rawURL, key string, ttl time.Duration) ([]byte, string, error) {
	entry, cached := c.cache.Get(key)
	if cached && entry.Fresh(c.now(), ttl) {
		return entry.Payload, entry.Next, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if cached && entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("github: GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	c.guard.Record(resp.Header.Get("x-ratelimit-remaining"), resp.Header.Get("x-ratelimit-reset"))

	switch {
	case resp.StatusCode == http.StatusNotModified:
		c.cache.Touch(key, c.now())
		return entry.Payload, entry.Next, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", fmt.Errorf("github: read response: %w", err)
		}
		next := nextLink(resp.Header.Get("Link"))
		c.cache.Put(key, body, next, resp.Header.Get("ETag"), c.now())
		return body, next, nil
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
}
