package chain

import (
	"errors"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/time/rate"
	"golang.org/x/xerrors"

	bCtx "github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/base/metrics"
	"github.com/closet-labs/marketapi/domain"
)

var (
	met = metrics.New("chain")
)

// DefaultRpcUrls are the public endpoints of each cluster
var DefaultRpcUrls = map[domain.Network]string{
	domain.NetworkDevnet:      rpc.DevNet.RPC,
	domain.NetworkTestnet:     rpc.TestNet.RPC,
	domain.NetworkMainnetBeta: rpc.MainNetBeta.RPC,
}

type ClientCfg struct {
	RpcUrls map[domain.Network]string
	// RateLimit caps requests per second against each endpoint, 0 means unlimited
	RateLimit float64
	Burst     int
}

// KeyedAccount is a program account and its raw data
type KeyedAccount struct {
	Pubkey solana.PublicKey
	Data   []byte
}

type Client interface {
	Networks() []domain.Network
	// ProgramAccounts returns accounts owned by program whose data starts with prefix
	ProgramAccounts(c bCtx.Ctx, network domain.Network, program solana.PublicKey, prefix []byte) ([]KeyedAccount, error)
	// AccountInfo fails with domain.ErrNotFound for a missing account
	AccountInfo(c bCtx.Ctx, network domain.Network, account solana.PublicKey) (owner solana.PublicKey, data []byte, err error)
	TokenMetadata(c bCtx.Ctx, network domain.Network, mint solana.PublicKey) (*TokenMetadata, error)
}

type endpoint struct {
	client  *rpc.Client
	limiter *rate.Limiter
}

type clientImpl struct {
	endpoints map[domain.Network]*endpoint
}

func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) Client {
	endpoints := make(map[domain.Network]*endpoint)
	for network, url := range cfg.RpcUrls {
		if url == "" {
			ctx.WithField("network", network).Warn("empty rpc url, network disabled")
			continue
		}
		limit := rate.Inf
		burst := cfg.Burst
		if cfg.RateLimit > 0 {
			limit = rate.Limit(cfg.RateLimit)
			if burst <= 0 {
				burst = 1
			}
		}
		endpoints[network] = &endpoint{
			client:  rpc.New(url),
			limiter: rate.NewLimiter(limit, burst),
		}
		ctx.WithFields(log.Fields{"network": network, "url": url}).Info("rpc endpoint configured")
	}
	return &clientImpl{endpoints: endpoints}
}

func (c *clientImpl) Networks() []domain.Network {
	res := make([]domain.Network, 0, len(c.endpoints))
	for n := range c.endpoints {
		res = append(res, n)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func (c *clientImpl) endpoint(ctx bCtx.Ctx, network domain.Network) (*endpoint, error) {
	e, ok := c.endpoints[network]
	if !ok {
		return nil, xerrors.Errorf("network %s: %w", network, domain.ErrUnsupportedNetwork)
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (c *clientImpl) ProgramAccounts(ctx bCtx.Ctx, network domain.Network, program solana.PublicKey, prefix []byte) ([]KeyedAccount, error) {
	e, err := c.endpoint(ctx, network)
	if err != nil {
		return nil, err
	}
	defer met.BumpTime("rpc.latency", "method", "getProgramAccounts", "network", network.String()).End()

	opts := &rpc.GetProgramAccountsOpts{
		Encoding: solana.EncodingBase64,
	}
	if len(prefix) > 0 {
		opts.Filters = []rpc.RPCFilter{{
			Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: solana.Base58(prefix)},
		}}
	}
	out, err := e.client.GetProgramAccountsWithOpts(ctx, program, opts)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"network": network,
			"program": program,
		}).Error("client.GetProgramAccountsWithOpts failed")
		met.BumpSum("rpc.err", 1, "method", "getProgramAccounts", "network", network.String())
		return nil, err
	}

	res := make([]KeyedAccount, 0, len(out))
	for _, acc := range out {
		if acc == nil || acc.Account == nil || acc.Account.Data == nil {
			continue
		}
		res = append(res, KeyedAccount{Pubkey: acc.Pubkey, Data: acc.Account.Data.GetBinary()})
	}
	return res, nil
}

func (c *clientImpl) AccountInfo(ctx bCtx.Ctx, network domain.Network, account solana.PublicKey) (solana.PublicKey, []byte, error) {
	e, err := c.endpoint(ctx, network)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	defer met.BumpTime("rpc.latency", "method", "getAccountInfo", "network", network.String()).End()

	out, err := e.client.GetAccountInfo(ctx, account)
	if errors.Is(err, rpc.ErrNotFound) {
		return solana.PublicKey{}, nil, xerrors.Errorf("account %s: %w", account, domain.ErrNotFound)
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"network": network,
			"account": account,
		}).Error("client.GetAccountInfo failed")
		met.BumpSum("rpc.err", 1, "method", "getAccountInfo", "network", network.String())
		return solana.PublicKey{}, nil, err
	}
	if out == nil || out.Value == nil || out.Value.Data == nil {
		return solana.PublicKey{}, nil, xerrors.Errorf("account %s: %w", account, domain.ErrNotFound)
	}
	return out.Value.Owner, out.Value.Data.GetBinary(), nil
}
