package usecase

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"
	"golang.org/x/xerrors"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/goroutine"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/marketplace"
)

const (
	defaultRefreshTimeout = 2 * time.Minute
	refreshAllWorkers     = 8
)

type RegistryCfg struct {
	Fetcher marketplace.ListingDetailFetcher
	Cache   marketplace.SessionCache
	Facets  marketplace.FacetIndexBuilder
	Filter  marketplace.FilterEngine

	Networks       []domain.Network
	DefaultNetwork domain.Network
	// RefreshTimeout bounds the background refresh a new view starts with
	RefreshTimeout time.Duration
}

type entry struct {
	view       marketplace.View
	lastAccess time.Time
}

type registry struct {
	cfg      RegistryCfg
	networks map[domain.Network]struct{}

	mu    sync.Mutex
	views map[string]*entry
}

func NewViewRegistry(cfg *RegistryCfg) marketplace.ViewRegistry {
	networks := map[domain.Network]struct{}{}
	for _, n := range cfg.Networks {
		networks[n] = struct{}{}
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = defaultRefreshTimeout
	}
	return &registry{
		cfg:      *cfg,
		networks: networks,
		views:    map[string]*entry{},
	}
}

func (r *registry) Create(c ctx.Ctx, opts marketplace.ViewOptions) (marketplace.View, error) {
	if opts.Network == "" {
		opts.Network = r.cfg.DefaultNetwork
	}
	if _, ok := r.networks[opts.Network]; !ok {
		return nil, xerrors.Errorf("network %s: %w", opts.Network, domain.ErrUnsupportedNetwork)
	}
	if opts.SessionKey == "" {
		opts.SessionKey = uuid.NewString()
	}

	id := uuid.NewString()
	v := NewView(c, &ViewCfg{
		Id:      id,
		Options: opts,
		Fetcher: r.cfg.Fetcher,
		Cache:   r.cfg.Cache,
		Facets:  r.cfg.Facets,
		Filter:  r.cfg.Filter,
	})

	r.mu.Lock()
	r.views[id] = &entry{view: v, lastAccess: time.Now()}
	total := len(r.views)
	r.mu.Unlock()
	met.BumpAvg("views", float64(total))

	rc := ctx.WithValue(ctx.Detach(c), "view", id)
	goroutine.Go(func() {
		tc, cancel := ctx.WithTimeout(rc, r.cfg.RefreshTimeout)
		defer cancel()
		if err := v.Refresh(tc); err != nil && !isBenign(err) {
			tc.WithField("err", err).Warn("initial refresh failed")
		}
	})

	return v, nil
}

func (r *registry) Get(c ctx.Ctx, id string) (marketplace.View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.views[id]
	if !ok {
		return nil, xerrors.Errorf("view %s: %w", id, domain.ErrNotFound)
	}
	e.lastAccess = time.Now()
	return e.view, nil
}

func (r *registry) Remove(c ctx.Ctx, id string) error {
	r.mu.Lock()
	e, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if !ok {
		return xerrors.Errorf("view %s: %w", id, domain.ErrNotFound)
	}
	e.view.Close()
	return nil
}

func (r *registry) RefreshAll(c ctx.Ctx) {
	views := r.list()
	if len(views) == 0 {
		return
	}
	defer met.BumpTime("refreshall.time").End()

	b := goroutines.NewBatch(minInt(refreshAllWorkers, len(views)), goroutines.WithBatchSize(len(views)))
	defer b.Close()
	for _, v := range views {
		view := v
		b.Queue(func() (interface{}, error) {
			return nil, view.Refresh(ctx.WithValue(c, "view", view.Id()))
		})
	}
	b.QueueComplete()

	failed := 0
	for ret := range b.Results() {
		if err := ret.Error(); err != nil && !isBenign(err) {
			failed++
		}
	}
	c.WithFields(log.Fields{"views": len(views), "failed": failed}).Info("refreshed all views")
}

func (r *registry) Evict(c ctx.Ctx, idle time.Duration) int {
	deadline := time.Now().Add(-idle)

	r.mu.Lock()
	evicted := []marketplace.View{}
	now := time.Now()
	for id, e := range r.views {
		if e.view.Subscribers() > 0 {
			e.lastAccess = now
			continue
		}
		if e.lastAccess.Before(deadline) {
			evicted = append(evicted, e.view)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range evicted {
		v.Close()
	}
	if len(evicted) > 0 {
		c.WithField("evicted", len(evicted)).Info("idle views evicted")
	}
	return len(evicted)
}

func (r *registry) list() []marketplace.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	views := make([]marketplace.View, 0, len(r.views))
	for _, e := range r.views {
		views = append(views, e.view)
	}
	return views
}

// isBenign reports refresh errors that need no logging
func isBenign(err error) bool {
	return errors.Is(err, domain.ErrStaleRefresh) || errors.Is(err, domain.ErrSessionClosed)
}
