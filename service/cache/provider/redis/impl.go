package redis

import (
	"time"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/service/cache/provider"
	"github.com/closet-labs/marketapi/service/redis"
)

type impl struct {
	redis redis.Service
	zip   bool
}

// NewRedis is a provider shared by every api instance. With zip the values are
// gzipped in redis.
func NewRedis(redis redis.Service, zip bool) provider.Provider {
	return &impl{redis, zip}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	get := im.redis.Get
	if im.zip {
		get = im.redis.GetZip
	}

	val, err := get(c, key)
	if err == redis.ErrNotFound {
		return nil, time.Duration(0), provider.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.Get failed")
		return nil, time.Duration(0), err
	}

	ttl, err := im.redis.TTL(c, key)
	if err == redis.ErrNoTTL {
		return val, time.Duration(0), nil
	} else if err == redis.ErrNotFound {
		// expired between GET and TTL
		return nil, time.Duration(0), provider.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.TTL failed")
		return nil, time.Duration(0), err
	}
	return val, time.Duration(ttl) * time.Second, nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	set := im.redis.Set
	if im.zip {
		set = im.redis.SetZip
	}
	if ttl <= 0 {
		ttl = redis.Forever
	}
	if err := set(c, key, value, ttl); err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	if _, err := im.redis.Del(c, key); err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.Del failed")
		return err
	}
	return nil
}
