package repository

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ipfsapi "github.com/ipfs/go-ipfs-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bCtx "github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

func newIpfsApi(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v0/cat" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.URL.Query().Get("arg") {
		case "QmHat/1.json":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(`{"name":"Hat #1"}`))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"Message":"blockservice: key not found","Code":0,"Type":"error"}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func Test_ipfsNodeApiReaderRepo_Get(t *testing.T) {
	server := newIpfsApi(t)
	s := ipfsapi.NewShell(strings.TrimPrefix(server.URL, "http://"))
	r := NewIpfsNodeApiReaderRepo(s, 5*time.Second)
	ctx := bCtx.Background()

	b, err := r.Get(ctx, "QmHat/1.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"name":"Hat #1"}`), b)

	_, err = r.Get(ctx, "QmMissing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func Test_ipfsNodeApiReaderRepo_Live(t *testing.T) {
	// local ipfs-node required
	if testing.Short() {
		t.Skip()
	}
	s := ipfsapi.NewShell("localhost:5001")
	if !s.IsUp() {
		t.Skip("no local ipfs node")
	}
	r := NewIpfsNodeApiReaderRepo(s, 15*time.Second)
	b, err := r.Get(bCtx.Background(), "QmeSjSinHpPnmXmspMjwiXyN6zS4E9zccariGR3jxcaWtq/0")
	require.NoError(t, err)
	assert.Contains(t, string(b), `"attributes"`)
}
