package nft

import (
	"time"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/ptr"
	"github.com/closet-labs/marketapi/domain"
)

// NFT is an ownership record a designer registers for a minted token. It is
// unrelated to marketplace listings.
type NFT struct {
	Id            string         `json:"id" bson:"_id"`
	TokenAddress  domain.Address `json:"tokenAddress" bson:"tokenAddress"`
	WalletAddress domain.Address `json:"walletAddress" bson:"walletAddress"`
	DesignerId    string         `json:"designerId" bson:"designerId"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
}

type CreateParams struct {
	TokenAddress  domain.Address `json:"tokenAddress" validate:"required,solanaAddress"`
	WalletAddress domain.Address `json:"walletAddress" validate:"required,solanaAddress"`
}

type FindAllOptions struct {
	DesignerId *string `bson:"designerId"`
	Offset     int     `bson:"-"`
	Limit      int     `bson:"-"`
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithDesignerId(designerId string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.DesignerId = ptr.String(designerId)
		return nil
	}
}

func WithPagination(offset, limit int) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		if offset < 0 || limit < 0 {
			return domain.ErrBadParamInput
		}
		options.Offset = offset
		options.Limit = limit
		return nil
	}
}

type Repo interface {
	Create(c ctx.Ctx, nft *NFT) error
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*NFT, error)
	Count(c ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
}

type Usecase interface {
	Create(c ctx.Ctx, designerId string, params *CreateParams) (*NFT, error)
	FindByDesigner(c ctx.Ctx, designerId string, offset, limit int) ([]*NFT, int, error)
}
