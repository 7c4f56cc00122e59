package repository

import (
	"bytes"
	"crypto/sha256"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"golang.org/x/xerrors"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/base/metrics"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/marketplace"
	"github.com/closet-labs/marketapi/service/chain"
)

var (
	met = metrics.New("listing")

	// ListingDiscriminator prefixes every Listing account of the market program
	ListingDiscriminator = AccountDiscriminator("Listing")
)

// AccountDiscriminator is the 8 byte prefix an anchor program writes in front of an account
func AccountDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("account:" + name))
	return sum[:8]
}

// listingAccount is the borsh layout following the discriminator
type listingAccount struct {
	Seller   solana.PublicKey
	Mint     solana.PublicKey
	Price    uint64
	IsActive bool
}

type ChainListingCfg struct {
	Client    chain.Client
	ProgramId solana.PublicKey
}

type chainListingImpl struct {
	client    chain.Client
	programId solana.PublicKey
}

func NewChainListingSource(cfg *ChainListingCfg) marketplace.ChainListingSource {
	return &chainListingImpl{
		client:    cfg.Client,
		programId: cfg.ProgramId,
	}
}

func (im *chainListingImpl) List(c ctx.Ctx, network domain.Network) ([]marketplace.ListingRecord, error) {
	accounts, err := im.client.ProgramAccounts(c, network, im.programId, ListingDiscriminator)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "network": network}).Error("client.ProgramAccounts failed")
		return nil, xerrors.Errorf("failed to read listings of %s: %w", im.programId, err)
	}

	res := make([]marketplace.ListingRecord, 0, len(accounts))
	for _, acc := range accounts {
		l, err := DecodeListing(acc.Pubkey, acc.Data)
		if err != nil {
			// one bad account must not hide the rest
			c.WithFields(log.Fields{"err": err, "account": acc.Pubkey}).Warn("DecodeListing failed, skip account")
			met.BumpSum("decode.err", 1, "network", network.String())
			continue
		}
		res = append(res, l)
	}
	met.BumpHistogram("accounts", float64(len(res)), "network", network.String())
	return res, nil
}

// DecodeListing parses a Listing account
func DecodeListing(pubkey solana.PublicKey, data []byte) (marketplace.ListingRecord, error) {
	if len(data) < len(ListingDiscriminator) || !bytes.Equal(data[:len(ListingDiscriminator)], ListingDiscriminator) {
		return marketplace.ListingRecord{}, xerrors.Errorf("account %s is not a listing: %w", pubkey, domain.ErrMalformedListing)
	}

	acc := listingAccount{}
	if err := bin.NewBorshDecoder(data[len(ListingDiscriminator):]).Decode(&acc); err != nil {
		return marketplace.ListingRecord{}, xerrors.Errorf("account %s: %v: %w", pubkey, err, domain.ErrMalformedListing)
	}

	return marketplace.ListingRecord{
		Mint:     acc.Mint.String(),
		Seller:   acc.Seller.String(),
		Price:    marketplace.LamportsToSol(acc.Price),
		Pubkey:   pubkey.String(),
		IsActive: acc.IsActive,
	}, nil
}
