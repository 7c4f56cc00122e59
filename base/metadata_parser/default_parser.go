package metadata_parser

import (
	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/marketplace"
)

type defaultParser struct {
	document   MetadataParser
	attributes MetadataParser
}

// NewDefaultParser combines the document keys and the attributes. The
// collection prefers the document, type and category prefer the attributes.
func NewDefaultParser(traits TraitNames) MetadataParser {
	return &defaultParser{
		document:   NewDocumentParser(),
		attributes: NewAttributesParser(traits),
	}
}

func (p *defaultParser) Name() string {
	return "Default Parser"
}

func (p *defaultParser) Parse(c ctx.Ctx, mint string, data []byte) (*marketplace.AssetMetadata, error) {
	meta, err := p.document.Parse(c, mint, data)
	if err != nil {
		return nil, err
	}

	attrs, err := p.attributes.Parse(c, mint, data)
	if err == domain.ErrNotFound {
		return meta, nil
	} else if err != nil {
		return nil, err
	}

	if meta.Collection == "" {
		meta.Collection = attrs.Collection
	}
	if attrs.Type != "" {
		meta.Type = attrs.Type
	}
	if attrs.Category != "" {
		meta.Category = attrs.Category
	}
	return meta, nil
}
