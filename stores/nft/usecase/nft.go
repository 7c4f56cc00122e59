package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/base/validator"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/nft"
)

const maxPageSize = 100

var (
	timeNow = time.Now
)

type impl struct {
	repo nft.Repo
}

func New(repo nft.Repo) nft.Usecase {
	return &impl{repo}
}

func (im *impl) Create(c ctx.Ctx, designerId string, params *nft.CreateParams) (*nft.NFT, error) {
	if designerId == "" {
		return nil, domain.ErrUnauthorized
	}
	token := domain.Address(strings.TrimSpace(params.TokenAddress.String()))
	wallet := domain.Address(strings.TrimSpace(params.WalletAddress.String()))
	if !validator.IsValidAddress(token.String()) || !validator.IsValidAddress(wallet.String()) {
		return nil, domain.ErrInvalidAddress
	}

	record := &nft.NFT{
		Id:            uuid.NewString(),
		TokenAddress:  token,
		WalletAddress: wallet,
		DesignerId:    designerId,
		CreatedAt:     timeNow().UTC(),
	}
	if err := im.repo.Create(c, record); err != nil {
		c.WithFields(log.Fields{
			"err":        err,
			"designerId": designerId,
		}).Error("repo.Create failed")
		return nil, err
	}
	return record, nil
}

func (im *impl) FindByDesigner(c ctx.Ctx, designerId string, offset, limit int) ([]*nft.NFT, int, error) {
	if designerId == "" {
		return nil, 0, domain.ErrUnauthorized
	}
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	opts := []nft.FindAllOptionsFunc{
		nft.WithDesignerId(designerId),
		nft.WithPagination(offset, limit),
	}
	res, err := im.repo.FindAll(c, opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err":        err,
			"designerId": designerId,
		}).Error("repo.FindAll failed")
		return nil, 0, err
	}
	total, err := im.repo.Count(c, opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err":        err,
			"designerId": designerId,
		}).Error("repo.Count failed")
		return nil, 0, err
	}
	return res, total, nil
}
