package usecase

import (
	"github.com/closet-labs/marketapi/domain/marketplace"
)

type filterEngine struct{}

func NewFilterEngine() marketplace.FilterEngine {
	return &filterEngine{}
}

func (f *filterEngine) Apply(records []marketplace.AssetRecord, sel marketplace.FilterSelection) []marketplace.AssetRecord {
	res := make([]marketplace.AssetRecord, 0, len(records))
	for _, r := range records {
		if f.Matches(r, sel) {
			res = append(res, r)
		}
	}
	return res
}

func (f *filterEngine) Matches(r marketplace.AssetRecord, sel marketplace.FilterSelection) bool {
	for _, d := range marketplace.Dimensions {
		if len(sel.Values(d)) > 0 && !sel.Has(d, r.Value(d)) {
			return false
		}
	}

	// with open bounds every record passes, unparsable prices included
	if sel.PriceRange.IsOpen() {
		return true
	}
	price, ok := marketplace.ParsePrice(r.Price)
	if !ok {
		return false
	}
	return sel.PriceRange.Contains(price)
}
