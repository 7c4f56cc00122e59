package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/database/mongoclient"
	hcdomain "github.com/closet-labs/marketapi/domain/healthcheck"
	"github.com/closet-labs/marketapi/service/redis"
)

const pingTimeout = 2 * time.Second

type impl struct {
	mgoClient  *mongoclient.Client
	redisCache redis.Service
}

// New pings what is configured, nil dependencies are skipped
func New(
	mgoClient *mongoclient.Client,
	redisCache redis.Service,
) hcdomain.HealthCheckRepo {
	return &impl{
		mgoClient:  mgoClient,
		redisCache: redisCache,
	}
}

func (im *impl) Ping(c ctx.Ctx) error {
	tc, cancel := ctx.WithTimeout(c, pingTimeout)
	defer cancel()

	if im.mgoClient != nil {
		if err := im.mgoClient.Ping(tc, readpref.Primary()); err != nil {
			c.WithField("err", err).Error("ping mongo failed")
			return err
		}
	}
	if im.redisCache != nil {
		if err := im.redisCache.Ping(tc); err != nil {
			c.WithField("err", err).Error("ping redis failed")
			return err
		}
	}
	return nil
}
