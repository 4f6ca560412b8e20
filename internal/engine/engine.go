// Package engine schedules aggregation runs per display instance and
// routes results back to them. Each registered instance owns exactly one
// periodic cron entry; the entry is recreated only when the instance's
// refresh interval changes. Results are pushed over per-instance channels;
// a failed run carries the instance's last good list alongside the error
// so the display can keep showing stale-but-valid rows.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pullwatch/pullwatch/internal/aggregate"
	"github.com/pullwatch/pullwatch/internal/config"
	"github.com/pullwatch/pullwatch/models"
	"github.com/robfig/cron/v3"
)

// ErrNoCredential is surfaced when no bearer token resolves and auth
// alerting is enabled.
var ErrNoCredential = errors.New("no GitHub token configured")

// Signal is one engine-to-instance message: fresh data, or an error with
// the best available fallback list (possibly empty on first run).
type Signal struct {
	Instance string
	// Err is empty for a data signal.
	Err   string
	Pulls []models.PullRequest
}

type instance struct {
	id       string
	cfg      config.Config
	interval time.Duration
	entry    cron.EntryID
	lastGood []models.PullRequest
	running  bool
	ch       chan Signal
}

// Engine owns the instance registry, their timers, and the shared
// aggregator state.
type Engine struct {
	mu        sync.Mutex
	cron      *cron.Cron
	agg       *aggregate.Aggregator
	defaults  config.Config
	instances map[string]*instance
}

func New(agg *aggregate.Aggregator, defaults config.Config) *Engine {
	return &Engine{
		cron:      cron.New(),
		agg:       agg,
		defaults:  defaults,
		instances: make(map[string]*instance),
	}
}

// Start begins firing instance timers. Stop halts them; in-flight runs
// are not cancelled, only future scheduling is affected.
func (e *Engine) Start() { e.cron.Start() }
func (e *Engine) Stop()  { e.cron.Stop() }

// Register creates or updates an instance: the supplied overrides are
// merged over the engine defaults, and the periodic timer is recreated
// only if the effective interval changed. Returns the instance's signal
// channel; for an existing instance it is the same channel as before.
func (e *Engine) Register(id string, overrides *config.Overrides) <-chan Signal {
	cfg := config.Merge(e.defaults, overrides)
	interval := cfg.Refresh.Interval()

	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[id]
	if !ok {
		inst = &instance{id: id, ch: make(chan Signal, 8)}
		e.instances[id] = inst
	}
	inst.cfg = cfg

	if !ok || interval != inst.interval {
		if ok {
			e.cron.Remove(inst.entry)
		}
		inst.interval = interval
		inst.entry = e.cron.Schedule(cron.Every(interval), cron.FuncJob(func() {
			e.Fetch(id)
		}))
		slog.Debug("engine: timer scheduled", "instance", id, "interval", interval)
	}
	return inst.ch
}

// Fetch runs one aggregation pass for the given instance and pushes the
// outcome on its channel. A trigger arriving while a run for the same
// instance is still in flight is dropped. Unknown instances are ignored.
func (e *Engine) Fetch(id string) {
	e.mu.Lock()
	inst, ok := e.instances[id]
	if !ok {
		e.mu.Unlock()
		return
	}
	if inst.running {
		e.mu.Unlock()
		slog.Debug("engine: run already in flight, tick dropped", "instance", id)
		return
	}
	inst.running = true
	cfg := inst.cfg
	fallback := inst.lastGood
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		inst.running = false
		e.mu.Unlock()
	}()

	token := cfg.Auth.ResolveToken()
	if token == "" && cfg.Alerts.ShowOnAuthError {
		e.emit(inst, Signal{
			Instance: id,
			Err:      e.errorMessage(ErrNoCredential, cfg),
			Pulls:    fallback,
		})
		return
	}

	pulls, err := e.agg.Run(context.Background(), &cfg, token)
	if err != nil {
		slog.Warn("engine: aggregation run failed", "instance", id, "error", err)
		e.emit(inst, Signal{Instance: id, Err: e.errorMessage(err, cfg), Pulls: fallback})
		return
	}

	e.mu.Lock()
	inst.lastGood = pulls
	e.mu.Unlock()
	e.emit(inst, Signal{Instance: id, Pulls: pulls})
}

// errorMessage keeps the distinguished conditions recognisable to the
// display layer while still reading as plain text.
func (e *Engine) errorMessage(err error, cfg config.Config) string {
	switch {
	case errors.Is(err, ErrNoCredential):
		return fmt.Sprintf("no GitHub token configured: set auth.token or $%s", cfg.Auth.TokenEnvVar)
	case errors.Is(err, aggregate.ErrRateLimited):
		if at := e.agg.Guard().ResumeAt(); !at.IsZero() {
			return fmt.Sprintf("GitHub API rate limited until %s", at.Local().Format(time.Kitchen))
		}
		return "GitHub API rate limited"
	default:
		return err.Error()
	}
}

// emit pushes without blocking; a display instance that stopped draining
// its channel loses frames, not the engine.
func (e *Engine) emit(inst *instance, s Signal) {
	select {
	case inst.ch <- s:
	default:
		slog.Warn("engine: signal dropped, slow consumer", "instance", inst.id)
	}
}
