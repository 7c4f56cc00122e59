package usecase

import (
	"github.com/closet-labs/marketapi/domain/marketplace"
)

type facetBuilder struct{}

func NewFacetIndexBuilder() marketplace.FacetIndexBuilder {
	return &facetBuilder{}
}

func (b *facetBuilder) Build(records []marketplace.AssetRecord) marketplace.FacetIndex {
	return marketplace.FacetIndex{
		Collections: distinct(records, marketplace.DimensionCollection),
		Types:       distinct(records, marketplace.DimensionType),
		Categories:  distinct(records, marketplace.DimensionCategory),
		PriceBounds: b.PriceBounds(records),
	}
}

func (b *facetBuilder) PriceBounds(records []marketplace.AssetRecord) *marketplace.PriceBounds {
	var bounds *marketplace.PriceBounds
	for _, r := range records {
		p, ok := marketplace.ParsePrice(r.Price)
		if !ok {
			continue
		}
		if bounds == nil {
			bounds = &marketplace.PriceBounds{Min: p, Max: p}
			continue
		}
		if p.LessThan(bounds.Min) {
			bounds.Min = p
		}
		if p.GreaterThan(bounds.Max) {
			bounds.Max = p
		}
	}
	return bounds
}

func distinct(records []marketplace.AssetRecord, d marketplace.Dimension) []string {
	seen := map[string]struct{}{}
	values := []string{}
	for _, r := range records {
		v := r.Value(d)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
