package usecase

import (
	"time"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain/marketplace"
	"github.com/closet-labs/marketapi/service/cache"
)

type sessionCache struct {
	cache cache.Service
}

// NewSessionCache stores snapshots in a cache service. Which provider backs it
// decides whether sessions survive a restart or move between instances.
func NewSessionCache(cache cache.Service) marketplace.SessionCache {
	return &sessionCache{cache: cache}
}

func (s *sessionCache) Load(c ctx.Ctx, sessionKey string) (*marketplace.SessionSnapshot, bool) {
	if sessionKey == "" {
		return nil, false
	}

	snapshot := &marketplace.SessionSnapshot{}
	if err := s.cache.Get(c, sessionKey, snapshot); err == cache.ErrNotFound {
		return nil, false
	} else if err != nil {
		// an unreadable entry is the same as no entry
		c.WithField("err", err).WithField("sessionKey", sessionKey).Warn("cache.Get failed, ignore session")
		met.BumpSum("session.load.err", 1)
		return nil, false
	}

	if !validSnapshot(snapshot) {
		c.WithField("sessionKey", sessionKey).Warn("invalid session snapshot, ignore session")
		met.BumpSum("session.load.invalid", 1)
		return nil, false
	}
	if snapshot.Records == nil {
		snapshot.Records = []marketplace.AssetRecord{}
	}
	return snapshot, true
}

func (s *sessionCache) Save(c ctx.Ctx, sessionKey string, records []marketplace.AssetRecord, walletAddress string) error {
	if sessionKey == "" {
		return nil
	}

	snapshot := &marketplace.SessionSnapshot{
		Records:       records,
		WalletAddress: walletAddress,
		SavedAt:       time.Now(),
	}
	if err := s.cache.Set(c, sessionKey, snapshot); err != nil {
		c.WithField("err", err).WithField("sessionKey", sessionKey).Warn("cache.Set failed")
		met.BumpSum("session.save.err", 1)
		return err
	}
	return nil
}

// validSnapshot rejects snapshots that would break the record set invariants
func validSnapshot(s *marketplace.SessionSnapshot) bool {
	seen := make(map[string]struct{}, len(s.Records))
	for _, r := range s.Records {
		if r.Mint == "" {
			return false
		}
		if _, ok := seen[r.Mint]; ok {
			return false
		}
		seen[r.Mint] = struct{}{}
	}
	return true
}
