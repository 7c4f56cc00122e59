package usecase

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/marketplace"
	"github.com/closet-labs/marketapi/domain/marketplace/mocks"
)

type registrySuite struct {
	suite.Suite
	fetcher  *mocks.ListingDetailFetcher
	cache    *mocks.SessionCache
	registry marketplace.ViewRegistry
}

func TestRegistry(t *testing.T) {
	suite.Run(t, new(registrySuite))
}

func (s *registrySuite) SetupTest() {
	s.fetcher = &mocks.ListingDetailFetcher{}
	s.cache = &mocks.SessionCache{}
	s.cache.On("Load", mock.Anything, mock.Anything).Return(nil, false).Maybe()
	s.cache.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	s.registry = NewViewRegistry(&RegistryCfg{
		Fetcher:        s.fetcher,
		Cache:          s.cache,
		Facets:         NewFacetIndexBuilder(),
		Filter:         NewFilterEngine(),
		Networks:       []domain.Network{domain.NetworkDevnet, domain.NetworkMainnetBeta},
		DefaultNetwork: domain.NetworkDevnet,
	})
}

func (s *registrySuite) TestCreate() {
	records := []marketplace.AssetRecord{asset("m1", "hats", "", "", "1")}
	s.fetcher.On("Refresh", mock.Anything, marketplace.Connection{Network: domain.NetworkDevnet, WalletAddress: "w"}).
		Return(records, nil)

	v, err := s.registry.Create(mockCtx, marketplace.ViewOptions{WalletAddress: "w"})
	s.Require().NoError(err)
	s.NotEmpty(v.Id())

	state := v.Snapshot()
	s.NotEmpty(state.SessionKey)
	s.Equal(domain.NetworkDevnet, state.Network)

	// the initial refresh runs in the background
	s.Eventually(func() bool {
		return len(v.Snapshot().Assets) == 1
	}, 3*time.Second, 10*time.Millisecond)

	got, err := s.registry.Get(mockCtx, v.Id())
	s.NoError(err)
	s.Equal(v, got)
}

func (s *registrySuite) TestCreateUnsupportedNetwork() {
	_, err := s.registry.Create(mockCtx, marketplace.ViewOptions{Network: domain.NetworkTestnet})
	s.ErrorIs(err, domain.ErrUnsupportedNetwork)
}

func (s *registrySuite) TestCreateKeepsSessionKey() {
	s.fetcher.On("Refresh", mock.Anything, mock.Anything).Return([]marketplace.AssetRecord{}, nil)

	v, err := s.registry.Create(mockCtx, marketplace.ViewOptions{SessionKey: "mine", Network: domain.NetworkMainnetBeta})
	s.Require().NoError(err)
	s.Equal("mine", v.Snapshot().SessionKey)
	s.Equal(domain.NetworkMainnetBeta, v.Snapshot().Network)
}

func (s *registrySuite) TestRemove() {
	s.fetcher.On("Refresh", mock.Anything, mock.Anything).Return([]marketplace.AssetRecord{}, nil)

	v, err := s.registry.Create(mockCtx, marketplace.ViewOptions{})
	s.Require().NoError(err)

	s.NoError(s.registry.Remove(mockCtx, v.Id()))
	s.ErrorIs(s.registry.Remove(mockCtx, v.Id()), domain.ErrNotFound)
	_, err = s.registry.Get(mockCtx, v.Id())
	s.ErrorIs(err, domain.ErrNotFound)
	s.ErrorIs(v.Refresh(mockCtx), domain.ErrSessionClosed)
}

func (s *registrySuite) TestRefreshAll() {
	var calls int32
	s.fetcher.On("Refresh", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { atomic.AddInt32(&calls, 1) }).
		Return([]marketplace.AssetRecord{asset("m1", "", "", "", "1")}, nil)

	for i := 0; i < 3; i++ {
		_, err := s.registry.Create(mockCtx, marketplace.ViewOptions{})
		s.Require().NoError(err)
	}
	// wait for the initial refreshes so the count below is exact
	s.Eventually(func() bool {
		return atomic.LoadInt32(&calls) == 3
	}, 3*time.Second, 10*time.Millisecond)

	s.registry.RefreshAll(mockCtx)
	s.Equal(int32(6), atomic.LoadInt32(&calls))
}

func (s *registrySuite) TestEvict() {
	s.fetcher.On("Refresh", mock.Anything, mock.Anything).Return([]marketplace.AssetRecord{}, nil)

	a, err := s.registry.Create(mockCtx, marketplace.ViewOptions{})
	s.Require().NoError(err)
	_, err = s.registry.Create(mockCtx, marketplace.ViewOptions{})
	s.Require().NoError(err)

	s.Equal(0, s.registry.Evict(mockCtx, time.Hour))

	time.Sleep(20 * time.Millisecond)
	s.Equal(2, s.registry.Evict(mockCtx, 10*time.Millisecond))

	_, err = s.registry.Get(mockCtx, a.Id())
	s.ErrorIs(err, domain.ErrNotFound)
	s.Eventually(func() bool {
		return errors.Is(a.Refresh(mockCtx), domain.ErrSessionClosed)
	}, time.Second, 10*time.Millisecond)
}

func (s *registrySuite) TestEvictKeepsSubscribedView() {
	s.fetcher.On("Refresh", mock.Anything, mock.Anything).Return([]marketplace.AssetRecord{}, nil)

	watched, err := s.registry.Create(mockCtx, marketplace.ViewOptions{})
	s.Require().NoError(err)
	idle, err := s.registry.Create(mockCtx, marketplace.ViewOptions{})
	s.Require().NoError(err)

	states, cancel := watched.Subscribe()
	<-states
	s.Equal(1, watched.Subscribers())

	time.Sleep(20 * time.Millisecond)
	s.Equal(1, s.registry.Evict(mockCtx, 10*time.Millisecond))

	_, err = s.registry.Get(mockCtx, watched.Id())
	s.NoError(err)
	_, err = s.registry.Get(mockCtx, idle.Id())
	s.ErrorIs(err, domain.ErrNotFound)
	s.NotErrorIs(watched.Refresh(mockCtx), domain.ErrSessionClosed)

	// the idle clock restarts once the last subscriber leaves
	cancel()
	s.Equal(0, watched.Subscribers())
	s.Equal(0, s.registry.Evict(mockCtx, time.Hour))
	time.Sleep(20 * time.Millisecond)
	s.Equal(1, s.registry.Evict(mockCtx, 10*time.Millisecond))
}
