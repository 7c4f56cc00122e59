package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/marketplace"
	"github.com/closet-labs/marketapi/domain/marketplace/mocks"
)

var (
	mockCtx = ctx.Background()
	devnet  = marketplace.Connection{Network: domain.NetworkDevnet}
)

func listing(mint, price string) marketplace.ListingRecord {
	return marketplace.ListingRecord{
		Mint:     mint,
		Seller:   "seller-" + mint,
		Price:    price,
		Pubkey:   "pda-" + mint,
		IsActive: true,
	}
}

func metaOf(mint string) *marketplace.AssetMetadata {
	return &marketplace.AssetMetadata{
		Name:       "name " + mint,
		Symbol:     "SYM",
		Collection: "col-" + mint,
		Type:       "type-" + mint,
		Category:   "cat",
	}
}

type fetcherSuite struct {
	suite.Suite
	source   *mocks.ChainListingSource
	resolver *mocks.AssetMetadataResolver
	fetcher  marketplace.ListingDetailFetcher
}

func TestFetcher(t *testing.T) {
	suite.Run(t, new(fetcherSuite))
}

func (s *fetcherSuite) SetupTest() {
	s.source = &mocks.ChainListingSource{}
	s.resolver = &mocks.AssetMetadataResolver{}
	s.fetcher = NewListingDetailFetcher(&FetcherCfg{
		Source:   s.source,
		Resolver: s.resolver,
		Workers:  4,
	})
}

func (s *fetcherSuite) TearDownTest() {
	s.source.AssertExpectations(s.T())
	s.resolver.AssertExpectations(s.T())
}

func (s *fetcherSuite) TestRefresh() {
	listings := []marketplace.ListingRecord{listing("a", "1.5"), listing("b", "2"), listing("c", "0.1")}
	s.source.On("List", mock.Anything, domain.NetworkDevnet).Return(listings, nil).Once()
	for _, l := range listings {
		s.resolver.On("Resolve", mock.Anything, l.Mint, domain.NetworkDevnet).Return(metaOf(l.Mint), nil).Once()
	}

	records, err := s.fetcher.Refresh(mockCtx, devnet)
	s.NoError(err)
	s.Equal([]string{"a", "b", "c"}, mints(records))
	s.Equal(marketplace.AssetRecord{
		Mint:       "b",
		Name:       "name b",
		Symbol:     "SYM",
		Collection: "col-b",
		Type:       "type-b",
		Category:   "cat",
		Seller:     "seller-b",
		Price:      "2",
		Listing:    "pda-b",
	}, records[1])
}

func (s *fetcherSuite) TestRefreshTwiceGivesSameSet() {
	listings := []marketplace.ListingRecord{
		listing("a", "1"), listing("b", "2.25"), listing("c", "3"), listing("d", "0.001"), listing("e", "9"),
	}
	s.source.On("List", mock.Anything, domain.NetworkDevnet).Return(listings, nil).Twice()
	for _, l := range listings {
		s.resolver.On("Resolve", mock.Anything, l.Mint, domain.NetworkDevnet).Return(metaOf(l.Mint), nil).Twice()
	}

	first, err := s.fetcher.Refresh(mockCtx, devnet)
	s.Require().NoError(err)
	second, err := s.fetcher.Refresh(mockCtx, devnet)
	s.Require().NoError(err)

	s.Len(first, len(listings))
	s.ElementsMatch(first, second)
}

func (s *fetcherSuite) TestRefreshDropsFailedResolution() {
	listings := []marketplace.ListingRecord{listing("a", "1"), listing("b", "2"), listing("c", "3"), listing("d", "4")}
	s.source.On("List", mock.Anything, domain.NetworkDevnet).Return(listings, nil)
	for _, l := range listings {
		s.resolver.On("Resolve", mock.Anything, l.Mint, domain.NetworkDevnet).Return(metaOf(l.Mint), nil).Once()
	}
	all, err := s.fetcher.Refresh(mockCtx, devnet)
	s.Require().NoError(err)
	s.Require().Len(all, 4)

	for _, l := range listings {
		if l.Mint == "c" {
			s.resolver.On("Resolve", mock.Anything, "c", domain.NetworkDevnet).Return(nil, errors.New("rpc down")).Once()
			continue
		}
		s.resolver.On("Resolve", mock.Anything, l.Mint, domain.NetworkDevnet).Return(metaOf(l.Mint), nil).Once()
	}
	partial, err := s.fetcher.Refresh(mockCtx, devnet)
	s.NoError(err)

	want := []marketplace.AssetRecord{all[0], all[1], all[3]}
	s.Equal(want, partial)
}

func (s *fetcherSuite) TestRefreshSurvivesResolverPanic() {
	listings := []marketplace.ListingRecord{listing("a", "1"), listing("b", "2")}
	s.source.On("List", mock.Anything, domain.NetworkDevnet).Return(listings, nil).Once()
	s.resolver.On("Resolve", mock.Anything, "a", domain.NetworkDevnet).Return(metaOf("a"), nil).Once()
	s.resolver.On("Resolve", mock.Anything, "b", domain.NetworkDevnet).
		Return(func(ctx.Ctx, string, domain.Network) *marketplace.AssetMetadata {
			panic("broken metadata")
		}, nil).Once()

	records, err := s.fetcher.Refresh(mockCtx, devnet)
	s.NoError(err)
	s.Equal([]string{"a"}, mints(records))
}

func (s *fetcherSuite) TestRefreshSourceFailure() {
	s.source.On("List", mock.Anything, domain.NetworkDevnet).Return(nil, errors.New("rpc down")).Once()

	records, err := s.fetcher.Refresh(mockCtx, devnet)
	s.Error(err)
	s.Nil(records)
}

func (s *fetcherSuite) TestRefreshEmpty() {
	s.source.On("List", mock.Anything, domain.NetworkDevnet).Return([]marketplace.ListingRecord{}, nil).Once()

	records, err := s.fetcher.Refresh(mockCtx, devnet)
	s.NoError(err)
	s.NotNil(records)
	s.Empty(records)
}

func (s *fetcherSuite) TestRefreshSkipsInactiveAndDuplicates() {
	inactive := listing("b", "2")
	inactive.IsActive = false
	dup := listing("a", "9")
	dup.Pubkey = "pda-other"
	listings := []marketplace.ListingRecord{
		listing("a", "1"),
		inactive,
		dup,
		listing("", "3"),
		listing("c", "4"),
	}
	s.source.On("List", mock.Anything, domain.NetworkDevnet).Return(listings, nil).Once()
	s.resolver.On("Resolve", mock.Anything, "a", domain.NetworkDevnet).Return(metaOf("a"), nil).Once()
	s.resolver.On("Resolve", mock.Anything, "c", domain.NetworkDevnet).Return(metaOf("c"), nil).Once()

	records, err := s.fetcher.Refresh(mockCtx, devnet)
	s.NoError(err)
	s.Equal([]string{"a", "c"}, mints(records))
	s.Equal("1", records[0].Price)
	s.Equal("pda-a", records[0].Listing)
}

func (s *fetcherSuite) TestRefreshNilMetadata() {
	s.source.On("List", mock.Anything, domain.NetworkDevnet).Return([]marketplace.ListingRecord{listing("a", "1")}, nil).Once()
	s.resolver.On("Resolve", mock.Anything, "a", domain.NetworkDevnet).Return(nil, nil).Once()

	records, err := s.fetcher.Refresh(mockCtx, devnet)
	s.NoError(err)
	s.Require().Len(records, 1)
	s.Equal("a", records[0].Mint)
	s.Empty(records[0].Name)
}

func (s *fetcherSuite) TestRefreshResolvesConcurrently() {
	listings := []marketplace.ListingRecord{listing("a", "1"), listing("b", "2"), listing("c", "3"), listing("d", "4")}
	s.source.On("List", mock.Anything, domain.NetworkDevnet).Return(listings, nil).Once()

	// every resolution waits until all four have started
	var wg sync.WaitGroup
	wg.Add(len(listings))
	all := make(chan struct{})
	go func() {
		wg.Wait()
		close(all)
	}()
	for _, l := range listings {
		s.resolver.On("Resolve", mock.Anything, l.Mint, domain.NetworkDevnet).
			Run(func(mock.Arguments) {
				wg.Done()
				select {
				case <-all:
				case <-time.After(5 * time.Second):
				}
			}).
			Return(metaOf(l.Mint), nil).Once()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		records, err := s.fetcher.Refresh(mockCtx, devnet)
		s.NoError(err)
		s.Len(records, 4)
	}()

	select {
	case <-all:
	case <-time.After(3 * time.Second):
		s.Fail("resolutions did not run concurrently")
	}
	<-done
}
