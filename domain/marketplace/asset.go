package marketplace

import (
	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

// AssetMetadata is what the resolver knows about a mint. Every field except Name and
// Symbol may be empty, and those two may be empty after a partial failure.
type AssetMetadata struct {
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	Image      string `json:"image,omitempty"`
	Group      string `json:"group,omitempty"`
	Collection string `json:"collection,omitempty"`
	Type       string `json:"type,omitempty"`
	Category   string `json:"category,omitempty"`
}

type AssetMetadataResolver interface {
	Resolve(c ctx.Ctx, mint string, network domain.Network) (*AssetMetadata, error)
}

// AssetRecord is a listing joined with the metadata of its mint. Mint is unique
// within a record set.
type AssetRecord struct {
	Mint       string `json:"mint"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	Image      string `json:"image,omitempty"`
	Group      string `json:"group,omitempty"`
	Collection string `json:"collection,omitempty"`
	Type       string `json:"type,omitempty"`
	Category   string `json:"category,omitempty"`
	Seller     string `json:"seller"`
	Price      string `json:"price"`
	Listing    string `json:"listing"`
}

// NewAssetRecord joins the chain side of a listing with resolved metadata.
// Without an explicit collection the raw group stands in for it.
func NewAssetRecord(l ListingRecord, m AssetMetadata) AssetRecord {
	collection := m.Collection
	if collection == "" {
		collection = m.Group
	}
	return AssetRecord{
		Mint:       l.Mint,
		Name:       m.Name,
		Symbol:     m.Symbol,
		Image:      m.Image,
		Group:      m.Group,
		Collection: collection,
		Type:       m.Type,
		Category:   m.Category,
		Seller:     l.Seller,
		Price:      l.Price,
		Listing:    l.Pubkey,
	}
}

// Value returns the record's value in a facet dimension
func (r AssetRecord) Value(d Dimension) string {
	switch d {
	case DimensionCollection:
		return r.Collection
	case DimensionType:
		return r.Type
	case DimensionCategory:
		return r.Category
	}
	return ""
}

// Connection is what a refresh needs to know about the caller's chain access.
type Connection struct {
	Network       domain.Network `json:"network"`
	WalletAddress string         `json:"walletAddress,omitempty"`
}

type ListingDetailFetcher interface {
	// Refresh reads a snapshot of the active listings and resolves every mint
	// concurrently. A listing whose metadata fails to resolve is left out. Only a
	// failure of the listing source fails the refresh.
	Refresh(c ctx.Ctx, conn Connection) ([]AssetRecord, error)
}
