package metadata_parser

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/marketplace"
)

// MetadataParser reads an off-chain metadata document. Fields it cannot find
// are left empty.
type MetadataParser interface {
	Name() string
	Parse(c ctx.Ctx, mint string, data []byte) (*marketplace.AssetMetadata, error)
}

// TraitNames lists, per facet dimension, the trait_type names that carry it.
// Matching is case insensitive.
type TraitNames struct {
	Collection []string
	Type       []string
	Category   []string
}

var DefaultTraitNames = TraitNames{
	Collection: []string{"collection"},
	Type:       []string{"type"},
	Category:   []string{"category"},
}

// dimension checks collection, then type, then category. The first match wins.
func (t TraitNames) dimension(traitType string) (marketplace.Dimension, bool) {
	traitType = strings.TrimSpace(traitType)
	for _, d := range []struct {
		dim   marketplace.Dimension
		names []string
	}{
		{marketplace.DimensionCollection, t.Collection},
		{marketplace.DimensionType, t.Type},
		{marketplace.DimensionCategory, t.Category},
	} {
		for _, n := range d.names {
			if strings.EqualFold(n, traitType) {
				return d.dim, true
			}
		}
	}
	return "", false
}

type attributesParser struct {
	traits TraitNames
}

// NewAttributesParser classifies from the "attributes" array. A document
// without attributes is domain.ErrNotFound.
func NewAttributesParser(traits TraitNames) MetadataParser {
	return &attributesParser{traits: traits}
}

func (im *attributesParser) Name() string {
	return "Attributes Parser"
}

func (im *attributesParser) Parse(c ctx.Ctx, _ string, data []byte) (*marketplace.AssetMetadata, error) {
	if !gjson.ValidBytes(data) {
		return nil, domain.ErrInvalidJsonFormat
	}
	attrs := gjson.GetBytes(data, "attributes")
	if !attrs.IsArray() || len(attrs.Array()) == 0 {
		return nil, domain.ErrNotFound
	}

	meta := &marketplace.AssetMetadata{}
	attrs.ForEach(func(_, attr gjson.Result) bool {
		d, ok := im.traits.dimension(attr.Get("trait_type").String())
		if !ok {
			return true
		}
		value := strings.TrimSpace(attr.Get("value").String())
		if value == "" {
			return true
		}
		// the first matching trait wins
		switch d {
		case marketplace.DimensionCollection:
			if meta.Collection == "" {
				meta.Collection = value
			}
		case marketplace.DimensionType:
			if meta.Type == "" {
				meta.Type = value
			}
		case marketplace.DimensionCategory:
			if meta.Category == "" {
				meta.Category = value
			}
		}
		return true
	})
	return meta, nil
}

type documentParser struct{}

// NewDocumentParser reads the top level keys of a metaplex style document.
// collection may be a plain string or an object with a name.
func NewDocumentParser() MetadataParser {
	return &documentParser{}
}

func (im *documentParser) Name() string {
	return "Document Parser"
}

func (im *documentParser) Parse(c ctx.Ctx, _ string, data []byte) (*marketplace.AssetMetadata, error) {
	if !gjson.ValidBytes(data) {
		return nil, domain.ErrInvalidJsonFormat
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, domain.ErrInvalidJsonFormat
	}

	collection := doc.Get("collection")
	if collection.IsObject() {
		collection = collection.Get("name")
	}

	return &marketplace.AssetMetadata{
		Name:       stringOf(doc.Get("name")),
		Symbol:     stringOf(doc.Get("symbol")),
		Image:      stringOf(doc.Get("image")),
		Collection: stringOf(collection),
		Type:       stringOf(doc.Get("type")),
		Category:   stringOf(doc.Get("category")),
	}, nil
}

func stringOf(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number:
		return strings.TrimSpace(r.String())
	}
	return ""
}
