package repository

import (
	"strings"

	bCtx "github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

type ipfsGatewayReaderRepo struct {
	http    *httpReaderRepo
	gateway string
}

// NewIpfsGatewayReaderRepo reads "<cid>/<path>" from a public gateway such as https://ipfs.io/ipfs
func NewIpfsGatewayReaderRepo(cfg *HttpReaderCfg, gateway string) domain.WebResourceReaderRepository {
	return &ipfsGatewayReaderRepo{http: newHttpReader(cfg, "ipfsgateway"), gateway: strings.TrimSuffix(gateway, "/")}
}

func (r *ipfsGatewayReaderRepo) Get(c bCtx.Ctx, cid string) ([]byte, error) {
	return r.http.Get(c, r.gateway+"/"+strings.TrimPrefix(cid, "/"))
}
