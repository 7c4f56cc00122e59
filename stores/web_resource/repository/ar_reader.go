package repository

import (
	"strings"

	"golang.org/x/xerrors"

	bCtx "github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

const (
	arUriSchema      = "ar://"
	DefaultArGateway = "https://arweave.net"
)

type arReaderRepo struct {
	http    *httpReaderRepo
	gateway string
}

// NewArReaderRepo reads ar:// uris through an arweave gateway
func NewArReaderRepo(cfg *HttpReaderCfg, gateway string) domain.WebResourceReaderRepository {
	if gateway == "" {
		gateway = DefaultArGateway
	}
	return &arReaderRepo{http: newHttpReader(cfg, "ar"), gateway: strings.TrimSuffix(gateway, "/")}
}

func (r *arReaderRepo) Get(c bCtx.Ctx, uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, arUriSchema) {
		return nil, xerrors.Errorf("invalid ar uri %q: %w", uri, domain.ErrUnsupportedSchema)
	}
	return r.http.Get(c, r.gateway+"/"+strings.TrimPrefix(uri, arUriSchema))
}
