package repository

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	bCtx "github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

var mockCtx = bCtx.Background()

type httpReaderSuite struct {
	suite.Suite
	server *httptest.Server
	cfg    *HttpReaderCfg
}

func TestHttpReaders(t *testing.T) {
	suite.Run(t, new(httpReaderSuite))
}

func (s *httpReaderSuite) SetupTest() {
	mux := http.NewServeMux()
	mux.HandleFunc("/meta.json", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"name":"Hat"}`))
	})
	mux.HandleFunc("/big.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 64)))
	})
	mux.HandleFunc("/tx123/0.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Arweave Hat"}`))
	})
	mux.HandleFunc("/ipfs/QmCid/1.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Ipfs Hat"}`))
	})
	s.server = httptest.NewServer(mux)
	s.cfg = &HttpReaderCfg{
		Client:  s.server.Client(),
		Timeout: 5 * time.Second,
		Headers: map[string]string{"X-Api-Key": "secret"},
	}
}

func (s *httpReaderSuite) TearDownTest() {
	s.server.Close()
}

func (s *httpReaderSuite) TestHttpGet() {
	r := NewHttpReaderRepo(s.cfg)

	b, err := r.Get(mockCtx, s.server.URL+"/meta.json")
	s.NoError(err)
	s.Equal([]byte(`{"name":"Hat"}`), b)

	_, err = r.Get(mockCtx, s.server.URL+"/missing.json")
	s.ErrorIs(err, domain.ErrNotFound)

	noKey := NewHttpReaderRepo(&HttpReaderCfg{Client: s.server.Client(), Timeout: time.Second})
	_, err = noKey.Get(mockCtx, s.server.URL+"/meta.json")
	s.Error(err)
}

func (s *httpReaderSuite) TestHttpGetWithoutTimeout() {
	r := NewHttpReaderRepo(&HttpReaderCfg{
		Client:  s.server.Client(),
		Headers: map[string]string{"X-Api-Key": "secret"},
	})
	b, err := r.Get(mockCtx, s.server.URL+"/meta.json")
	s.NoError(err)
	s.Equal([]byte(`{"name":"Hat"}`), b)

	ar := NewArReaderRepo(&HttpReaderCfg{Client: s.server.Client()}, s.server.URL)
	b, err = ar.Get(mockCtx, "ar://tx123/0.json")
	s.NoError(err)
	s.Equal([]byte(`{"name":"Arweave Hat"}`), b)
}

func (s *httpReaderSuite) TestHttpGetBodyLimit() {
	r := NewHttpReaderRepo(&HttpReaderCfg{Client: s.server.Client(), Timeout: time.Second, MaxBodyBytes: 64})
	b, err := r.Get(mockCtx, s.server.URL+"/big.json")
	s.NoError(err)
	s.Len(b, 64)

	r = NewHttpReaderRepo(&HttpReaderCfg{Client: s.server.Client(), Timeout: time.Second, MaxBodyBytes: 63})
	_, err = r.Get(mockCtx, s.server.URL+"/big.json")
	s.Error(err)
}

func (s *httpReaderSuite) TestArGet() {
	r := NewArReaderRepo(s.cfg, s.server.URL+"/")

	b, err := r.Get(mockCtx, "ar://tx123/0.json")
	s.NoError(err)
	s.Equal([]byte(`{"name":"Arweave Hat"}`), b)

	_, err = r.Get(mockCtx, "https://arweave.net/tx123")
	s.ErrorIs(err, domain.ErrUnsupportedSchema)
}

func (s *httpReaderSuite) TestIpfsGatewayGet() {
	r := NewIpfsGatewayReaderRepo(s.cfg, s.server.URL+"/ipfs")

	b, err := r.Get(mockCtx, "QmCid/1.json")
	s.NoError(err)
	s.Equal([]byte(`{"name":"Ipfs Hat"}`), b)

	_, err = r.Get(mockCtx, "QmOther")
	s.ErrorIs(err, domain.ErrNotFound)
}
