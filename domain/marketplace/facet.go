package marketplace

import "github.com/shopspring/decimal"

// PriceBounds is the lowest and highest parsable price of a record set
type PriceBounds struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// FacetIndex lists the distinct non-empty values of each dimension in first seen order.
type FacetIndex struct {
	Collections []string     `json:"collections"`
	Types       []string     `json:"types"`
	Categories  []string     `json:"categories"`
	PriceBounds *PriceBounds `json:"priceBounds,omitempty"`
}

func (f FacetIndex) Values(d Dimension) []string {
	switch d {
	case DimensionCollection:
		return f.Collections
	case DimensionType:
		return f.Types
	case DimensionCategory:
		return f.Categories
	}
	return nil
}

type FacetIndexBuilder interface {
	Build(records []AssetRecord) FacetIndex
	// PriceBounds is nil when no record has a parsable price
	PriceBounds(records []AssetRecord) *PriceBounds
}

type FilterEngine interface {
	// Apply keeps the records matching every non-empty dimension of the selection,
	// in their original order. It never returns records that are not in the input.
	Apply(records []AssetRecord, sel FilterSelection) []AssetRecord
	Matches(record AssetRecord, sel FilterSelection) bool
}
