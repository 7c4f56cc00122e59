package marketplace

import (
	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

// ListingRecord is one sale listing account as read from the market program.
// Price is the SOL amount rendered as a decimal string.
type ListingRecord struct {
	Mint     string `json:"mint"`
	Seller   string `json:"seller"`
	Price    string `json:"price"`
	Pubkey   string `json:"pubkey"`
	IsActive bool   `json:"isActive"`
}

// ChainListingSource returns every listing account of the market program on a network.
// Inactive listings are included, filtering is left to the caller.
type ChainListingSource interface {
	List(c ctx.Ctx, network domain.Network) ([]ListingRecord, error)
}
