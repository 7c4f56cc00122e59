package metadata_parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bCtx "github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/marketplace"
)

const hatDoc = `{
  "name": "Closet Hat #12",
  "symbol": "CHAT",
  "image": "https://arweave.net/hat12.png",
  "collection": {"name": "Closet Hats", "family": "Closet"},
  "category": "apparel",
  "attributes": [
    {"trait_type": "Background", "value": "Blue"},
    {"trait_type": "TYPE", "value": "Beanie"},
    {"trait_type": "Category", "value": "Headwear"},
    {"trait_type": "type", "value": "Cap"},
    {"trait_type": "Collection", "value": "ignored"}
  ],
  "properties": {"category": "image", "files": []}
}`

func TestDefaultParser(t *testing.T) {
	ctx := bCtx.Background()
	tests := []struct {
		name    string
		doc     string
		want    *marketplace.AssetMetadata
		wantErr error
	}{
		{
			name: "full document",
			doc:  hatDoc,
			want: &marketplace.AssetMetadata{
				Name:       "Closet Hat #12",
				Symbol:     "CHAT",
				Image:      "https://arweave.net/hat12.png",
				Collection: "Closet Hats",
				Type:       "Beanie",
				Category:   "Headwear",
			},
		},
		{
			name: "collection from attribute",
			doc:  `{"name":"Boot","attributes":[{"trait_type":"collection","value":"Boots"},{"trait_type":"Size","value":42}]}`,
			want: &marketplace.AssetMetadata{Name: "Boot", Collection: "Boots"},
		},
		{
			name: "top level only",
			doc:  `{"name":"Scarf","collection":"Winter","type":"scarf","category":"accessory"}`,
			want: &marketplace.AssetMetadata{Name: "Scarf", Collection: "Winter", Type: "scarf", Category: "accessory"},
		},
		{
			name: "numeric trait value",
			doc:  `{"name":"Sock","attributes":[{"trait_type":"Type","value":7}]}`,
			want: &marketplace.AssetMetadata{Name: "Sock", Type: "7"},
		},
		{
			name:    "not json",
			doc:     `<html>`,
			wantErr: domain.ErrInvalidJsonFormat,
		},
		{
			name:    "json array",
			doc:     `[1,2]`,
			wantErr: domain.ErrInvalidJsonFormat,
		},
	}
	p := NewDefaultParser(DefaultTraitNames)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(ctx, "mint", []byte(tt.doc))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttributesParserWithoutAttributes(t *testing.T) {
	_, err := NewAttributesParser(DefaultTraitNames).Parse(bCtx.Background(), "mint", []byte(`{"name":"x"}`))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAttributesParserCustomTraits(t *testing.T) {
	p := NewAttributesParser(TraitNames{
		Type:     []string{"Garment"},
		Category: []string{"Section", "Department"},
	})
	got, err := p.Parse(bCtx.Background(), "mint", []byte(`{"attributes":[
		{"trait_type":"Type","value":"ignored"},
		{"trait_type":"garment","value":"Jacket"},
		{"trait_type":"Department","value":"Outerwear"}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, &marketplace.AssetMetadata{Type: "Jacket", Category: "Outerwear"}, got)
}

func TestAttributesParserSharedTraitName(t *testing.T) {
	p := NewAttributesParser(TraitNames{
		Type:     []string{"kind"},
		Category: []string{"kind", "section"},
	})
	doc := []byte(`{"attributes":[
		{"trait_type":"Kind","value":"Jacket"},
		{"trait_type":"Section","value":"Outerwear"}
	]}`)
	for i := 0; i < 50; i++ {
		got, err := p.Parse(bCtx.Background(), "mint", doc)
		require.NoError(t, err)
		assert.Equal(t, &marketplace.AssetMetadata{Type: "Jacket", Category: "Outerwear"}, got)
	}
}

func TestSelector(t *testing.T) {
	defaultParser := NewDefaultParser(DefaultTraitNames)
	s := NewSelector(defaultParser)
	InitializeSelector(s, map[string]TraitNames{
		"GroupA": {Type: []string{"Garment"}},
	})

	custom := s.GetParser("GroupA")
	assert.NotEqual(t, defaultParser, custom)
	assert.Equal(t, defaultParser, s.GetParser("GroupB"))
	assert.Equal(t, defaultParser, s.GetParser(""))

	got, err := custom.Parse(bCtx.Background(), "mint", []byte(`{"attributes":[{"trait_type":"Garment","value":"Coat"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Coat", got.Type)
}
