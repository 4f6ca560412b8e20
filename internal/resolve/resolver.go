// Package resolve decides which base branches to filter a target's pull
// requests by. Target configuration answers directly where it can; only
// the default-branch case needs a repository-metadata lookup, which goes
// through a fixed one-hour cache.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gogithub "github.com/google/go-github/v68/github"
	"github.com/pullwatch/pullwatch/models"
)

// metadataTTL is fixed and independent of the caller's refresh interval.
const metadataTTL = time.Hour

type metaEntry struct {
	branch    string
	fetchedAt time.Time
}

// MetaCache holds resolved default branches keyed by owner/repo. One value
// is shared by every run in the process.
type MetaCache struct {
	mu      sync.Mutex
	entries map[string]metaEntry
}

func NewMetaCache() *MetaCache {
	return &MetaCache{entries: make(map[string]metaEntry)}
}

func (m *MetaCache) get(key string, now time.Time) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || now.Sub(e.fetchedAt) >= metadataTTL {
		return "", false
	}
	return e.branch, true
}

func (m *MetaCache) put(key, branch string, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = metaEntry{branch: branch, fetchedAt: now}
}

// Resolver binds a GitHub client to the shared metadata cache.
type Resolver struct {
	gh   *gogithub.Client
	meta *MetaCache
	// lookupMu serialises metadata fetches so concurrent runs resolving
	// the same repo issue at most one API call per cache window.
	lookupMu sync.Mutex
	now      func() time.Time
}

func NewResolver(gh *gogithub.Client, meta *MetaCache) *Resolver {
	return &Resolver{gh: gh, meta: meta, now: time.Now}
}

// Resolve returns the ordered set of base branches to filter t's pull
// requests by. An empty result means "do not filter by branch". Metadata
// lookup failures are absorbed here: the target degrades to an unfiltered
// fetch instead of failing the whole run.
func (r *Resolver) Resolve(ctx context.Context, t models.Target) []string {
	switch t.BaseMode {
	case models.BaseModeAll:
		return nil
	case models.BaseModeList:
		if len(t.Branches) > 0 {
			return append([]string(nil), t.Branches...)
		}
		// Empty list falls through to default-branch resolution.
	}

	if t.DefaultBranch != "" {
		return []string{t.DefaultBranch}
	}

	branch, err := r.defaultBranch(ctx, t.Owner, t.Repo)
	if err != nil {
		slog.Warn("branch resolution failed, fetching unfiltered",
			"owner", t.Owner, "repo", t.Repo, "error", err)
		return nil
	}
	if branch == "" {
		return nil
	}
	return []string{branch}
}

func (r *Resolver) defaultBranch(ctx context.Context, owner, repo string) (string, error) {
	key := owner + "/" + repo

	r.lookupMu.Lock()
	defer r.lookupMu.Unlock()

	if branch, ok := r.meta.get(key, r.now()); ok {
		return branch, nil
	}

	repoMeta, _, err := r.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("getting repo metadata for %s: %w", key, err)
	}
	branch := repoMeta.GetDefaultBranch()
	r.meta.put(key, branch, r.now())
	return branch, nil
}
