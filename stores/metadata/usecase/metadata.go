package usecase

import (
	"github.com/gagliardetto/solana-go"
	"golang.org/x/xerrors"

	bCtx "github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/base/metadata_parser"
	"github.com/closet-labs/marketapi/base/metrics"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/keys"
	"github.com/closet-labs/marketapi/domain/marketplace"
	"github.com/closet-labs/marketapi/service/cache"
	"github.com/closet-labs/marketapi/service/chain"
)

var (
	met = metrics.New("metadata")
)

type MetadataUseCaseCfg struct {
	Chain       chain.Client
	WebResource domain.WebResourceUseCase
	Selector    *metadata_parser.Selector
	// Cache keeps fully resolved metadata, nil disables caching
	Cache cache.Service
}

type metadataUseCase struct {
	chain       chain.Client
	webResource domain.WebResourceUseCase
	selector    *metadata_parser.Selector
	cache       cache.Service
}

func NewMetadataUseCase(cfg *MetadataUseCaseCfg) marketplace.AssetMetadataResolver {
	selector := cfg.Selector
	if selector == nil {
		selector = metadata_parser.NewSelector(metadata_parser.NewDefaultParser(metadata_parser.DefaultTraitNames))
	}
	return &metadataUseCase{
		chain:       cfg.Chain,
		webResource: cfg.WebResource,
		selector:    selector,
		cache:       cfg.Cache,
	}
}

// Resolve fails only when the on-chain metadata cannot be read. A missing or
// broken off-chain document leaves a partial result with the on-chain name and
// symbol, which is not cached.
func (u *metadataUseCase) Resolve(c bCtx.Ctx, mint string, network domain.Network) (*marketplace.AssetMetadata, error) {
	key := keys.RedisKey(network.String(), mint)
	if u.cache != nil {
		cached := &marketplace.AssetMetadata{}
		if err := u.cache.Get(c, key, cached); err == nil {
			met.BumpSum("cache.hit", 1)
			return cached, nil
		}
	}

	meta, complete, err := u.resolve(c, mint, network)
	if err != nil {
		return nil, err
	}
	if complete && u.cache != nil {
		if err := u.cache.Set(c, key, meta); err != nil {
			c.WithFields(log.Fields{"err": err, "mint": mint}).Warn("cache.Set failed")
		}
	}
	return meta, nil
}

func (u *metadataUseCase) resolve(c bCtx.Ctx, mint string, network domain.Network) (*marketplace.AssetMetadata, bool, error) {
	defer met.BumpTime("resolve.time").End()

	pk, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return nil, false, xerrors.Errorf("mint %q: %w", mint, domain.ErrInvalidAddress)
	}

	onchain, err := u.chain.TokenMetadata(c, network, pk)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "mint": mint}).Warn("chain.TokenMetadata failed")
		return nil, false, xerrors.Errorf("on-chain metadata of %s: %w", mint, err)
	}

	meta := &marketplace.AssetMetadata{
		Name:   onchain.Name,
		Symbol: onchain.Symbol,
		Group:  onchain.Collection,
	}
	if onchain.Uri == "" {
		return meta, true, nil
	}

	data, err := u.webResource.GetJson(c, onchain.Uri)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "mint": mint, "uri": onchain.Uri}).Warn("webResource.GetJson failed, keep on-chain metadata")
		met.BumpSum("resolve.partial", 1, "reason", "fetch")
		return meta, false, nil
	}

	parser := u.selector.GetParser(meta.Group)
	offchain, err := parser.Parse(c, mint, data)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "mint": mint, "parser": parser.Name()}).Warn("parser.Parse failed, keep on-chain metadata")
		met.BumpSum("resolve.partial", 1, "reason", "parse")
		return meta, false, nil
	}

	if meta.Name == "" {
		meta.Name = offchain.Name
	}
	if meta.Symbol == "" {
		meta.Symbol = offchain.Symbol
	}
	meta.Image = offchain.Image
	meta.Collection = offchain.Collection
	meta.Type = offchain.Type
	meta.Category = offchain.Category
	return meta, true, nil
}
