package usecase

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/marketplace"
)

const refreshErrorMessage = "could not refresh listings"

type ViewCfg struct {
	Id      string
	Options marketplace.ViewOptions

	Fetcher marketplace.ListingDetailFetcher
	Cache   marketplace.SessionCache
	Facets  marketplace.FacetIndexBuilder
	Filter  marketplace.FilterEngine
}

// view serializes every mutation of its record set, facets and selection
// through mu. Fetching runs outside the lock.
//
// Every refresh takes a sequence number when it starts. A finished refresh is
// applied only if its number is above the last applied one, so an older
// refresh completing late can never overwrite a newer result.
type view struct {
	id         string
	sessionKey string

	fetcher marketplace.ListingDetailFetcher
	cache   marketplace.SessionCache
	facets  marketplace.FacetIndexBuilder
	filter  marketplace.FilterEngine

	mu         sync.Mutex
	conn       marketplace.Connection
	records    []marketplace.AssetRecord
	facetIndex marketplace.FacetIndex
	filtered   []marketplace.AssetRecord
	selection  marketplace.FilterSelection

	issued   uint64
	applied  uint64
	failed   uint64
	inflight int
	lastErr  error

	closed    bool
	version   uint64
	updatedAt time.Time

	subs    map[uint64]chan marketplace.ViewState
	nextSub uint64
}

// NewView builds a view seeded from the session cache. It does not fetch.
func NewView(c ctx.Ctx, cfg *ViewCfg) marketplace.View {
	v := &view{
		id:         cfg.Id,
		sessionKey: cfg.Options.SessionKey,
		fetcher:    cfg.Fetcher,
		cache:      cfg.Cache,
		facets:     cfg.Facets,
		filter:     cfg.Filter,
		conn: marketplace.Connection{
			Network:       cfg.Options.Network,
			WalletAddress: cfg.Options.WalletAddress,
		},
		records:   []marketplace.AssetRecord{},
		selection: marketplace.NewFilterSelection(),
		updatedAt: time.Now(),
		subs:      map[uint64]chan marketplace.ViewState{},
	}

	if snapshot, ok := v.cache.Load(c, v.sessionKey); ok {
		v.records = snapshot.Records
		if v.conn.WalletAddress == "" {
			v.conn.WalletAddress = snapshot.WalletAddress
		}
		c.WithFields(log.Fields{"view": v.id, "records": len(v.records)}).Info("view seeded from session cache")
	}
	v.rebuildLocked(true)
	return v
}

func (v *view) Id() string {
	return v.id
}

func (v *view) Snapshot() marketplace.ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *view) Lookup(mint string) (marketplace.AssetRecord, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.records {
		if r.Mint == mint {
			return r, true
		}
	}
	return marketplace.AssetRecord{}, false
}

func (v *view) Refresh(c ctx.Ctx) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return domain.ErrSessionClosed
	}
	v.issued++
	seq := v.issued
	v.inflight++
	conn := v.conn
	v.changedLocked()
	v.mu.Unlock()

	logger := c.WithFields(log.Fields{"view": v.id, "seq": seq})
	records, err := v.fetcher.Refresh(c, conn)

	v.mu.Lock()
	v.inflight--
	if v.closed {
		v.mu.Unlock()
		return domain.ErrSessionClosed
	}

	if applied := v.applied; seq <= applied {
		v.changedLocked()
		v.mu.Unlock()
		logger.WithField("applied", applied).Info("stale refresh discarded")
		met.BumpSum("refresh.stale", 1)
		return domain.ErrStaleRefresh
	}

	if err != nil {
		if seq > v.failed {
			v.failed = seq
			v.lastErr = err
		}
		v.changedLocked()
		v.mu.Unlock()
		logger.WithField("err", err).Error("fetcher.Refresh failed, keep previous records")
		return err
	}

	v.applied = seq
	if seq > v.failed {
		v.lastErr = nil
	}
	v.records = records
	v.rebuildLocked(true)
	v.changedLocked()
	wallet := v.conn.WalletAddress
	v.mu.Unlock()

	v.save(c, records, wallet)
	return nil
}

func (v *view) SetWallet(c ctx.Ctx, walletAddress string) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return domain.ErrSessionClosed
	}
	v.conn.WalletAddress = walletAddress
	records := v.records
	v.changedLocked()
	v.mu.Unlock()

	v.save(c, records, walletAddress)
	return v.Refresh(c)
}

func (v *view) Toggle(d marketplace.Dimension, value string) (marketplace.ViewState, error) {
	return v.updateSelection(func(s marketplace.FilterSelection) (marketplace.FilterSelection, error) {
		return s.Toggle(d, value)
	})
}

func (v *view) SetPriceRange(min, max *decimal.Decimal) (marketplace.ViewState, error) {
	return v.updateSelection(func(s marketplace.FilterSelection) (marketplace.FilterSelection, error) {
		return s.SetPriceRange(min, max)
	})
}

func (v *view) ResetFilters() marketplace.ViewState {
	state, _ := v.updateSelection(func(s marketplace.FilterSelection) (marketplace.FilterSelection, error) {
		return s.Reset(), nil
	})
	return state
}

func (v *view) updateSelection(update func(marketplace.FilterSelection) (marketplace.FilterSelection, error)) (marketplace.ViewState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return v.stateLocked(), domain.ErrSessionClosed
	}

	sel, err := update(v.selection)
	if err != nil {
		return v.stateLocked(), err
	}
	v.selection = sel
	v.rebuildLocked(false)
	v.changedLocked()
	return v.stateLocked(), nil
}

func (v *view) Subscribe() (<-chan marketplace.ViewState, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan marketplace.ViewState, 1)
	if v.closed {
		close(ch)
		return ch, func() {}
	}

	id := v.nextSub
	v.nextSub++
	v.subs[id] = ch
	ch <- v.stateLocked()

	cancel := func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if sub, ok := v.subs[id]; ok {
			delete(v.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (v *view) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

func (v *view) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.records = []marketplace.AssetRecord{}
	v.filtered = []marketplace.AssetRecord{}
	for id, sub := range v.subs {
		delete(v.subs, id)
		close(sub)
	}
}

func (v *view) save(c ctx.Ctx, records []marketplace.AssetRecord, walletAddress string) {
	if err := v.cache.Save(c, v.sessionKey, records, walletAddress); err != nil {
		c.WithFields(log.Fields{"err": err, "view": v.id}).Warn("cache.Save failed")
	}
}

// rebuildLocked re-derives facets (when the record set changed) and the
// filtered records, always from the full record set.
func (v *view) rebuildLocked(recordsChanged bool) {
	if recordsChanged {
		v.facetIndex = v.facets.Build(v.records)
	}
	v.filtered = v.filter.Apply(v.records, v.selection)
}

func (v *view) changedLocked() {
	v.version++
	v.updatedAt = time.Now()

	state := v.stateLocked()
	for _, sub := range v.subs {
		// keep only the newest state for slow subscribers
		select {
		case <-sub:
		default:
		}
		select {
		case sub <- state:
		default:
		}
	}
}

// stateLocked shares the record slices. They are replaced, never modified in place.
func (v *view) stateLocked() marketplace.ViewState {
	state := marketplace.ViewState{
		Id:            v.id,
		SessionKey:    v.sessionKey,
		Network:       v.conn.Network,
		WalletAddress: v.conn.WalletAddress,
		Assets:        v.filtered,
		Total:         len(v.records),
		Facets:        v.facetIndex,
		Selection:     v.selection,
		IsLoading:     v.inflight > 0,
		Version:       v.version,
		UpdatedAt:     v.updatedAt,
	}
	if v.lastErr != nil {
		state.Error = refreshErrorMessage
	}
	return state
}
