package primitive

import (
	"time"

	"github.com/coocood/freecache"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/service/cache/provider"
)

// impl is an in process provider backed by freecache
type impl struct {
	name  string
	cache *freecache.Cache
}

// NewPrimitive allocates a sizeMb megabyte cache
func NewPrimitive(name string, sizeMb int) provider.Provider {
	return &impl{name, freecache.NewCache(sizeMb * 1024 * 1024)}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, ttl, err := im.cache.GetWithExpiration([]byte(key))
	if err == freecache.ErrNotFound {
		return nil, time.Duration(0), provider.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Get failed")
		return nil, time.Duration(0), err
	}
	if ttl == 0 {
		return val, time.Duration(0), nil
	}
	return val, time.Until(time.Unix(int64(ttl), 0)), nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	// freecache takes whole seconds, 0 means no expiry
	secs := int(ttl.Seconds())
	if ttl > 0 && secs == 0 {
		secs = 1
	}
	if err := im.cache.Set([]byte(key), value, secs); err != nil {
		c.WithFields(map[string]interface{}{"err": err, "key": key, "cache": im.name}).Error("cache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	im.cache.Del([]byte(key))
	return nil
}
