package repository

import (
	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/database/mongoclient"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/nft"
	"github.com/closet-labs/marketapi/service/query"
)

type impl struct {
	query query.Mongo
}

func New(query query.Mongo) nft.Repo {
	return &impl{query}
}

// EnsureIndexes prepares the lookups FindAll runs
func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	return q.EnsureIndex(c, domain.TableNFTs, false, "designerId", "createdAt")
}

func (im *impl) Create(c ctx.Ctx, record *nft.NFT) error {
	if err := im.query.Insert(c, domain.TableNFTs, record); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"nft": record,
		}).Error("failed to query.Insert")
		return err
	}
	return nil
}

func (im *impl) selector(c ctx.Ctx, opts ...nft.FindAllOptionsFunc) (nft.FindAllOptions, interface{}, error) {
	options, err := nft.GetFindAllOptions(opts...)
	if err != nil {
		c.WithField("err", err).Error("failed to nft.GetFindAllOptions")
		return options, nil, err
	}
	selector, err := mongoclient.MakeBsonM(options)
	if err != nil {
		c.WithField("err", err).Error("failed to mongoclient.MakeBsonM")
		return options, nil, err
	}
	return options, selector, nil
}

func (im *impl) FindAll(c ctx.Ctx, opts ...nft.FindAllOptionsFunc) ([]*nft.NFT, error) {
	options, selector, err := im.selector(c, opts...)
	if err != nil {
		return nil, err
	}

	res := []*nft.NFT{}
	if err := im.query.Search(c, domain.TableNFTs, options.Offset, options.Limit, "-createdAt", selector, &res); err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to query.Search")
		return nil, err
	}
	return res, nil
}

func (im *impl) Count(c ctx.Ctx, opts ...nft.FindAllOptionsFunc) (int, error) {
	_, selector, err := im.selector(c, opts...)
	if err != nil {
		return 0, err
	}

	n, err := im.query.Count(c, domain.TableNFTs, selector)
	if err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to query.Count")
		return 0, err
	}
	return n, nil
}
