package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	validatorV10 "github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/validator"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/keys"
	"github.com/closet-labs/marketapi/domain/marketplace"
	"github.com/closet-labs/marketapi/domain/marketplace/mocks"
	"github.com/closet-labs/marketapi/service/cache"
	"github.com/closet-labs/marketapi/service/cache/provider/primitive"
	"github.com/closet-labs/marketapi/stores/marketplace/usecase"
)

const (
	wallet    = "M2mx93ekt1fmXSVkTrUL9xVFHkmME8HTUi5Cyc5aF7K"
	hatMint   = "So11111111111111111111111111111111111111112"
	shoeMint  = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	otherMint = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
)

var (
	hat = marketplace.AssetRecord{
		Mint: hatMint, Name: "A", Collection: "hats", Type: "cap", Price: "1.0", Seller: "s1", Listing: "l1",
	}
	shoe = marketplace.AssetRecord{
		Mint: shoeMint, Name: "B", Collection: "shoes", Type: "sneaker", Price: "5.0", Seller: "s2", Listing: "l2",
	}
)

type stateResp struct {
	Data   marketplace.ViewState `json:"data"`
	Status string                `json:"status"`
}

type handlerSuite struct {
	suite.Suite
	e        *echo.Echo
	fetcher  *mocks.ListingDetailFetcher
	registry marketplace.ViewRegistry
}

func TestMarketplaceHandler(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	s.fetcher = &mocks.ListingDetailFetcher{}
	s.registry = usecase.NewViewRegistry(&usecase.RegistryCfg{
		Fetcher: s.fetcher,
		Cache: usecase.NewSessionCache(cache.New(cache.ServiceConfig{
			Ttl:   time.Hour,
			Pfx:   keys.PfxSession,
			Cache: primitive.NewPrimitive("session", 1),
		})),
		Facets:         usecase.NewFacetIndexBuilder(),
		Filter:         usecase.NewFilterEngine(),
		Networks:       []domain.Network{domain.NetworkDevnet},
		DefaultNetwork: domain.NetworkDevnet,
	})

	s.e = echo.New()
	s.e.Validator = validator.NewCustomValidator(validatorV10.New())
	s.e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("ctx", ctx.Background())
			return next(c)
		}
	})
	New(s.e, &HandlerCfg{Registry: s.registry, RefreshTimeout: 5 * time.Second})
}

func (s *handlerSuite) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *handlerSuite) decode(rec *httptest.ResponseRecorder) marketplace.ViewState {
	resp := stateResp{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("success", resp.Status)
	return resp.Data
}

func mints(records []marketplace.AssetRecord) []string {
	res := []string{}
	for _, r := range records {
		res = append(res, r.Mint)
	}
	return res
}

// open creates a session and waits for its first refresh
func (s *handlerSuite) open() string {
	s.fetcher.On("Refresh", mock.Anything, marketplace.Connection{Network: domain.NetworkDevnet}).
		Return([]marketplace.AssetRecord{hat, shoe}, nil)

	rec := s.do(http.MethodPost, "/marketplace/sessions", `{"sessionKey":"k1"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	id := s.decode(rec).Id
	s.Require().NotEmpty(id)

	s.Require().Eventually(func() bool {
		v, err := s.registry.Get(ctx.Background(), id)
		return err == nil && len(v.Snapshot().Assets) == 2 && !v.Snapshot().IsLoading
	}, 3*time.Second, 10*time.Millisecond)
	return id
}

func (s *handlerSuite) TestCreateUnsupportedNetwork() {
	rec := s.do(http.MethodPost, "/marketplace/sessions", `{"network":"testnet"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *handlerSuite) TestCreateInvalidWallet() {
	rec := s.do(http.MethodPost, "/marketplace/sessions", `{"walletAddress":"0xabc"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *handlerSuite) TestGetUnknown() {
	rec := s.do(http.MethodGet, "/marketplace/sessions/nope", "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *handlerSuite) TestFilters() {
	id := s.open()

	state := s.decode(s.do(http.MethodGet, "/marketplace/sessions/"+id, ""))
	s.Equal([]string{hatMint, shoeMint}, mints(state.Assets))
	s.Equal([]string{"hats", "shoes"}, state.Facets.Collections)
	s.Require().NotNil(state.Facets.PriceBounds)
	s.Equal("1", state.Facets.PriceBounds.Min.String())
	s.Equal("5", state.Facets.PriceBounds.Max.String())

	rec := s.do(http.MethodPost, "/marketplace/sessions/"+id+"/filters/toggle", `{"dimension":"collection","value":"hats"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	state = s.decode(rec)
	s.Equal([]string{hatMint}, mints(state.Assets))
	s.Equal([]string{"hats"}, state.Selection.Collections)
	// facets describe the full record set
	s.Equal([]string{"hats", "shoes"}, state.Facets.Collections)

	// toggling again removes the value
	state = s.decode(s.do(http.MethodPost, "/marketplace/sessions/"+id+"/filters/toggle", `{"dimension":"collection","value":"hats"}`))
	s.Equal([]string{hatMint, shoeMint}, mints(state.Assets))

	rec = s.do(http.MethodPut, "/marketplace/sessions/"+id+"/filters/price", `{"min":"2","max":"10"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal([]string{shoeMint}, mints(s.decode(rec).Assets))

	state = s.decode(s.do(http.MethodDelete, "/marketplace/sessions/"+id+"/filters", ""))
	s.Equal([]string{hatMint, shoeMint}, mints(state.Assets))
	s.Empty(state.Selection.Collections)
	s.Nil(state.Selection.PriceRange.Min)
}

func (s *handlerSuite) TestBadFilters() {
	id := s.open()

	rec := s.do(http.MethodPost, "/marketplace/sessions/"+id+"/filters/toggle", `{"dimension":"color","value":"red"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/marketplace/sessions/"+id+"/filters/price", `{"min":"5","max":"1"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/marketplace/sessions/"+id+"/filters/price", `{"min":"cheap"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	// rejected bounds keep the previous selection
	state := s.decode(s.do(http.MethodGet, "/marketplace/sessions/"+id, ""))
	s.Nil(state.Selection.PriceRange.Min)
	s.Len(state.Assets, 2)
}

func (s *handlerSuite) TestLookup() {
	id := s.open()

	s.do(http.MethodPost, "/marketplace/sessions/"+id+"/filters/toggle", `{"dimension":"collection","value":"hats"}`)

	// lookup ignores the selection
	rec := s.do(http.MethodGet, "/marketplace/sessions/"+id+"/listings/"+shoeMint, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"collection":"shoes"`)

	rec = s.do(http.MethodGet, "/marketplace/sessions/"+id+"/listings/"+otherMint, "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/marketplace/sessions/"+id+"/listings/0xabc", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *handlerSuite) TestRefreshFailureKeepsAssets() {
	id := s.open()

	s.fetcher.ExpectedCalls = nil
	s.fetcher.On("Refresh", mock.Anything, mock.Anything).Return(nil, errors.New("rpc down"))

	rec := s.do(http.MethodPost, "/marketplace/sessions/"+id+"/refresh", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	state := s.decode(rec)
	s.NotEmpty(state.Error)
	s.False(state.IsLoading)
	s.Len(state.Assets, 2)
}

func (s *handlerSuite) TestSetWallet() {
	id := s.open()

	s.fetcher.On("Refresh", mock.Anything, marketplace.Connection{Network: domain.NetworkDevnet, WalletAddress: wallet}).
		Return([]marketplace.AssetRecord{shoe}, nil).Once()

	rec := s.do(http.MethodPut, "/marketplace/sessions/"+id+"/wallet", `{"walletAddress":"`+wallet+`"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	state := s.decode(rec)
	s.Equal(wallet, state.WalletAddress)
	s.Equal([]string{shoeMint}, mints(state.Assets))

	rec = s.do(http.MethodPut, "/marketplace/sessions/"+id+"/wallet", `{"walletAddress":"nope"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *handlerSuite) TestRemove() {
	id := s.open()

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/marketplace/sessions/"+id, "").Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/marketplace/sessions/"+id, "").Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/marketplace/sessions/"+id, "").Code)
}

func (s *handlerSuite) TestStream() {
	id := s.open()

	server := httptest.NewServer(s.e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/marketplace/sessions/" + id + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	defer conn.Close()

	read := func() marketplace.ViewState {
		state := marketplace.ViewState{}
		s.Require().NoError(conn.SetReadDeadline(time.Now().Add(3 * time.Second)))
		s.Require().NoError(conn.ReadJSON(&state))
		return state
	}

	first := read()
	s.Equal(id, first.Id)
	s.Len(first.Assets, 2)

	s.Equal(http.StatusOK, s.do(http.MethodPost, "/marketplace/sessions/"+id+"/filters/toggle", `{"dimension":"type","value":"sneaker"}`).Code)
	for {
		state := read()
		if len(state.Assets) == 1 {
			s.Equal(shoeMint, state.Assets[0].Mint)
			s.Greater(state.Version, first.Version)
			break
		}
	}

	// closing the session ends the stream
	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/marketplace/sessions/"+id, "").Code)
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(3 * time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.True(websocket.IsCloseError(err, websocket.CloseGoingAway), err.Error())
			break
		}
	}
}

func (s *handlerSuite) TestStreamUnknownSession() {
	rec := s.do(http.MethodGet, "/marketplace/sessions/nope/stream", "")
	s.Equal(http.StatusNotFound, rec.Code)
}
