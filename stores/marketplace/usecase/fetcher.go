package usecase

import (
	"fmt"
	"time"

	"github.com/viney-shih/goroutines"
	"golang.org/x/xerrors"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/base/metrics"
	"github.com/closet-labs/marketapi/domain/marketplace"
)

var (
	met = metrics.New("marketplace")
)

const (
	defaultWorkers         = 16
	defaultResolveTimeout  = 20 * time.Second
	resolveFailedMetricKey = "resolve.err"
)

type FetcherCfg struct {
	Source   marketplace.ChainListingSource
	Resolver marketplace.AssetMetadataResolver
	// Workers caps the concurrent metadata resolutions of one refresh
	Workers int
	// ResolveTimeout bounds a single resolution
	ResolveTimeout time.Duration
}

type fetcher struct {
	source         marketplace.ChainListingSource
	resolver       marketplace.AssetMetadataResolver
	workers        int
	resolveTimeout time.Duration
}

func NewListingDetailFetcher(cfg *FetcherCfg) marketplace.ListingDetailFetcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	timeout := cfg.ResolveTimeout
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	return &fetcher{
		source:         cfg.Source,
		resolver:       cfg.Resolver,
		workers:        workers,
		resolveTimeout: timeout,
	}
}

type resolved struct {
	idx    int
	record marketplace.AssetRecord
}

func (f *fetcher) Refresh(c ctx.Ctx, conn marketplace.Connection) ([]marketplace.AssetRecord, error) {
	defer met.BumpTime("refresh.time", "network", conn.Network.String()).End()

	listings, err := f.source.List(c, conn.Network)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "network": conn.Network}).Error("source.List failed")
		met.BumpSum("refresh.err", 1, "network", conn.Network.String())
		return nil, xerrors.Errorf("failed to list listings: %w", err)
	}

	active := activeListings(listings)
	met.BumpHistogram("refresh.listings", float64(len(active)), "network", conn.Network.String())
	if len(active) == 0 {
		return []marketplace.AssetRecord{}, nil
	}

	// one slot per listing keeps the output in listing order
	slots := make([]*marketplace.AssetRecord, len(active))

	b := goroutines.NewBatch(minInt(f.workers, len(active)), goroutines.WithBatchSize(len(active)))
	defer b.Close()
	for i := range active {
		idx := i
		b.Queue(func() (interface{}, error) {
			return f.resolve(c, conn, idx, active[idx])
		})
	}
	b.QueueComplete()

	// Results is closed once every queued task settled
	failed := 0
	for ret := range b.Results() {
		if ret.Error() != nil {
			failed++
			continue
		}
		r := ret.Value().(resolved)
		slots[r.idx] = &r.record
	}

	records := make([]marketplace.AssetRecord, 0, len(active)-failed)
	for _, r := range slots {
		if r != nil {
			records = append(records, *r)
		}
	}

	if failed > 0 {
		c.WithFields(log.Fields{"failed": failed, "active": len(active)}).Warn("some listings dropped")
	}
	return records, nil
}

func (f *fetcher) resolve(c ctx.Ctx, conn marketplace.Connection, idx int, l marketplace.ListingRecord) (res interface{}, err error) {
	logger := c.WithFields(log.Fields{"mint": l.Mint, "listing": l.Pubkey})
	defer func() {
		if p := recover(); p != nil {
			logger.WithField("panic", p).Error("resolver panicked")
			met.BumpSum(resolveFailedMetricKey, 1, "reason", "panic")
			err = fmt.Errorf("resolver panicked: %v", p)
		}
	}()

	rc, cancel := ctx.WithTimeout(c, f.resolveTimeout)
	defer cancel()

	meta, err := f.resolver.Resolve(rc, l.Mint, conn.Network)
	if err != nil {
		logger.WithField("err", err).Warn("resolver.Resolve failed, listing dropped")
		met.BumpSum(resolveFailedMetricKey, 1, "reason", "error")
		return nil, err
	}
	if meta == nil {
		meta = &marketplace.AssetMetadata{}
	}
	return resolved{idx: idx, record: marketplace.NewAssetRecord(l, *meta)}, nil
}

// activeListings keeps active listings with a mint. A mint listed twice keeps its first listing.
func activeListings(listings []marketplace.ListingRecord) []marketplace.ListingRecord {
	seen := map[string]struct{}{}
	res := make([]marketplace.ListingRecord, 0, len(listings))
	for _, l := range listings {
		if !l.IsActive || l.Mint == "" {
			continue
		}
		if _, ok := seen[l.Mint]; ok {
			continue
		}
		seen[l.Mint] = struct{}{}
		res = append(res, l)
	}
	return res
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
