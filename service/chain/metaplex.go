package chain

import (
	"strings"

	bin "github.com/gagliardetto/binary"
	tokenmetadata "github.com/gagliardetto/metaplex-go/clients/token-metadata"
	"github.com/gagliardetto/solana-go"
	"golang.org/x/xerrors"

	bCtx "github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

const MetaplexTokenMetadataProgramID = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"

var metaplexProgramID = solana.MustPublicKeyFromBase58(MetaplexTokenMetadataProgramID)

// TokenMetadata is the on-chain part of a mint's metadata. Uri points at the
// off-chain json document. Collection is set only for a verified collection.
type TokenMetadata struct {
	Name       string
	Symbol     string
	Uri        string
	Collection string
}

// MetadataAddress derives the metadata account of a mint
func MetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("metadata"),
			metaplexProgramID.Bytes(),
			mint.Bytes(),
		},
		metaplexProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, xerrors.Errorf("failed to derive metadata address of %s: %w", mint, err)
	}
	return pda, nil
}

// DecodeMetadata parses a metadata account. Strings are stored zero padded.
func DecodeMetadata(data []byte) (*TokenMetadata, error) {
	var meta tokenmetadata.Metadata
	if err := bin.NewBorshDecoder(data).Decode(&meta); err != nil {
		return nil, xerrors.Errorf("failed to decode metadata: %w", err)
	}
	res := &TokenMetadata{
		Name:   strings.TrimRight(meta.Data.Name, "\x00"),
		Symbol: strings.TrimRight(meta.Data.Symbol, "\x00"),
		Uri:    strings.TrimSpace(strings.TrimRight(meta.Data.Uri, "\x00")),
	}
	if meta.Collection != nil && meta.Collection.Verified {
		res.Collection = meta.Collection.Key.String()
	}
	return res, nil
}

func (c *clientImpl) TokenMetadata(ctx bCtx.Ctx, network domain.Network, mint solana.PublicKey) (*TokenMetadata, error) {
	pda, err := MetadataAddress(mint)
	if err != nil {
		return nil, err
	}
	owner, data, err := c.AccountInfo(ctx, network, pda)
	if err != nil {
		return nil, err
	}
	if !owner.Equals(metaplexProgramID) {
		return nil, xerrors.Errorf("metadata account %s owned by %s: %w", pda, owner, domain.ErrNotFound)
	}
	return DecodeMetadata(data)
}
