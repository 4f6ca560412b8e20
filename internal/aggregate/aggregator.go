// Package aggregate turns a set of configured repository targets into one
// bounded, sorted, deduplicated list of pull-request records.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pullwatch/pullwatch/internal/config"
	"github.com/pullwatch/pullwatch/internal/github"
	"github.com/pullwatch/pullwatch/internal/httpcache"
	"github.com/pullwatch/pullwatch/internal/ratelimit"
	"github.com/pullwatch/pullwatch/internal/resolve"
	"github.com/pullwatch/pullwatch/models"
)

// ErrRateLimited is returned before any network call when the guard is
// engaged. Callers surface it with the last good result attached.
var ErrRateLimited = errors.New("github API quota exhausted")

// Aggregator owns the process-wide shared state: the HTTP cache, the
// rate-limit guard, and the repository-metadata cache. Clients are cheap
// and built per run from the run's credential and API origin.
type Aggregator struct {
	cache *httpcache.Cache
	guard *ratelimit.Guard
	meta  *resolve.MetaCache
}

func New() *Aggregator {
	return &Aggregator{
		cache: httpcache.New(),
		guard: ratelimit.NewGuard(),
		meta:  resolve.NewMetaCache(),
	}
}

// Guard exposes the shared rate-limit guard so callers can report the
// suppression deadline in error messages.
func (a *Aggregator) Guard() *ratelimit.Guard { return a.guard }

// Run performs one full aggregation pass: resolve branches per target,
// list (paginated, cached), dedup, filter, enrich with detail counts,
// cap per target, then merge, sort by recency, and cap globally.
//
// The guard check happens first: a rate-limited run issues no network
// traffic at all. Any transport or API failure past branch resolution
// aborts the entire run.
func (a *Aggregator) Run(ctx context.Context, cfg *config.Config, token string) ([]models.PullRequest, error) {
	if cfg.Refresh.BackoffOnRateLimit && a.guard.Limited(time.Now()) {
		return nil, ErrRateLimited
	}

	hc := newHTTPClient(ctx, token)
	client := github.NewClient(hc, cfg.Auth.APIBaseURL, a.cache, a.guard)
	resolver := resolve.NewResolver(newMetadataClient(hc, cfg.Auth.APIBaseURL), a.meta)
	ttl := cfg.Refresh.Interval()

	var merged []models.PullRequest
	for _, t := range cfg.Targets {
		records, err := a.collectTarget(ctx, client, resolver, t, cfg, ttl)
		if err != nil {
			return nil, fmt.Errorf("target %s/%s: %w", t.Owner, t.Repo, err)
		}
		merged = append(merged, records...)
	}

	// Most recently updated first; ties keep their relative order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].UpdatedAt.After(merged[j].UpdatedAt)
	})
	if len(merged) > cfg.Limits.MaxTotal {
		merged = merged[:cfg.Limits.MaxTotal]
	}
	return merged, nil
}

func (a *Aggregator) collectTarget(ctx context.Context, client *github.Client, resolver *resolve.Resolver, t models.Target, cfg *config.Config, ttl time.Duration) ([]models.PullRequest, error) {
	branches := resolver.Resolve(ctx, t)
	queries := branches
	if len(queries) == 0 {
		// Single unfiltered list request.
		queries = []string{""}
	}

	var pulls []github.Pull
	for _, branch := range queries {
		page, err := client.ListPulls(ctx, t.Owner, t.Repo, branch, cfg.Query.State, ttl)
		if err != nil {
			return nil, err
		}
		pulls = append(pulls, page...)
	}

	// Dedup by number across branch queries, first occurrence wins.
	seen := make(map[int]bool, len(pulls))
	unique := pulls[:0]
	for _, p := range pulls {
		if seen[p.Number] {
			continue
		}
		seen[p.Number] = true
		if p.Draft && !cfg.Query.IncludeDrafts {
			continue
		}
		unique = append(unique, p)
	}

	records := make([]models.PullRequest, 0, len(unique))
	for _, p := range unique {
		detail, err := client.GetPull(ctx, t.Owner, t.Repo, p.Number, ttl)
		if err != nil {
			return nil, err
		}
		records = append(records, buildRecord(t, p, detail))
	}

	// Cap before merging so one busy target cannot starve the others.
	if len(records) > cfg.Limits.MaxPerRepo {
		records = records[:cfg.Limits.MaxPerRepo]
	}
	return records, nil
}

// buildRecord assembles the output record from a list-view payload and its
// detail view. The detail counts are authoritative; the list-view author
// is preferred and the detail author is only a fallback.
func buildRecord(t models.Target, list github.Pull, detail *github.Pull) models.PullRequest {
	author := list.User
	if author == nil || author.Login == "" {
		author = detail.User
	}
	rec := models.PullRequest{
		Owner:        t.Owner,
		Repo:         t.Repo,
		Label:        t.DisplayLabel(),
		Number:       list.Number,
		Title:        list.Title,
		URL:          list.HTMLURL,
		Additions:    detail.Additions,
		Deletions:    detail.Deletions,
		ChangedFiles: detail.ChangedFiles,
		Draft:        list.Draft,
		BaseBranch:   list.Base.Ref,
		CreatedAt:    list.CreatedAt,
		UpdatedAt:    list.UpdatedAt,
	}
	if author != nil {
		rec.Author = models.Author{Login: author.Login, AvatarURL: author.AvatarURL}
	}
	return rec
}
