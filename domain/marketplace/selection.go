package marketplace

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"

	"github.com/closet-labs/marketapi/domain"
)

type Dimension string

const (
	DimensionCollection Dimension = "collection"
	DimensionType       Dimension = "type"
	DimensionCategory   Dimension = "category"
)

var Dimensions = []Dimension{DimensionCollection, DimensionType, DimensionCategory}

func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dimensions {
		if d == known {
			return d, nil
		}
	}
	return "", xerrors.Errorf("%s: %w", s, domain.ErrUnknownDimension)
}

// PriceRange holds inclusive bounds. A nil bound is open.
type PriceRange struct {
	Min *decimal.Decimal `json:"min"`
	Max *decimal.Decimal `json:"max"`
}

func NewPriceRange(min, max *decimal.Decimal) (PriceRange, error) {
	if min != nil && max != nil && min.GreaterThan(*max) {
		return PriceRange{}, xerrors.Errorf("min %s > max %s: %w", min, max, domain.ErrInvalidPriceRange)
	}
	return PriceRange{Min: min, Max: max}, nil
}

func (p PriceRange) IsOpen() bool {
	return p.Min == nil && p.Max == nil
}

func (p PriceRange) Contains(price decimal.Decimal) bool {
	if p.Min != nil && price.LessThan(*p.Min) {
		return false
	}
	if p.Max != nil && price.GreaterThan(*p.Max) {
		return false
	}
	return true
}

// FilterSelection is the per session filter state. Values are never mutated in
// place, every operation returns a new selection.
type FilterSelection struct {
	Collections []string   `json:"collections"`
	Types       []string   `json:"types"`
	Categories  []string   `json:"categories"`
	PriceRange  PriceRange `json:"priceRange"`
}

// NewFilterSelection returns the unrestricted selection
func NewFilterSelection() FilterSelection {
	return FilterSelection{
		Collections: []string{},
		Types:       []string{},
		Categories:  []string{},
	}
}

func (s FilterSelection) Values(d Dimension) []string {
	switch d {
	case DimensionCollection:
		return s.Collections
	case DimensionType:
		return s.Types
	case DimensionCategory:
		return s.Categories
	}
	return nil
}

func (s FilterSelection) with(d Dimension, values []string) FilterSelection {
	switch d {
	case DimensionCollection:
		s.Collections = values
	case DimensionType:
		s.Types = values
	case DimensionCategory:
		s.Categories = values
	}
	return s
}

// Toggle adds value to the dimension if absent and removes it otherwise.
func (s FilterSelection) Toggle(d Dimension, value string) (FilterSelection, error) {
	if _, err := ParseDimension(string(d)); err != nil {
		return s, err
	}
	if value == "" {
		return s, xerrors.Errorf("empty %s value: %w", d, domain.ErrBadParamInput)
	}

	cur := s.Values(d)
	next := make([]string, 0, len(cur)+1)
	found := false
	for _, v := range cur {
		if v == value {
			found = true
			continue
		}
		next = append(next, v)
	}
	if !found {
		next = append(next, value)
	}
	return s.with(d, next), nil
}

// SetPriceRange replaces the price bounds. Out of order bounds are rejected and
// the receiver is returned unchanged.
func (s FilterSelection) SetPriceRange(min, max *decimal.Decimal) (FilterSelection, error) {
	r, err := NewPriceRange(min, max)
	if err != nil {
		return s, err
	}
	s.PriceRange = r
	return s, nil
}

func (s FilterSelection) Reset() FilterSelection {
	return NewFilterSelection()
}

func (s FilterSelection) IsEmpty() bool {
	return len(s.Collections) == 0 && len(s.Types) == 0 && len(s.Categories) == 0 && s.PriceRange.IsOpen()
}

func (s FilterSelection) Has(d Dimension, value string) bool {
	for _, v := range s.Values(d) {
		if v == value {
			return true
		}
	}
	return false
}
