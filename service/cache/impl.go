package cache

import (
	"encoding/json"
	"reflect"
	"time"

	"golang.org/x/xerrors"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/base/metrics"
	"github.com/closet-labs/marketapi/domain/keys"
	"github.com/closet-labs/marketapi/service/cache/provider"
)

var (
	met = metrics.New("cache")
)

type impl struct {
	ttl         time.Duration
	pfx         string
	cache       provider.Provider
	serialize   Serializer
	deserialize Deserializer
}

// New namespaces every key under config.Pfx. Values are json unless a
// serializer pair is given.
func New(config ServiceConfig) Service {
	im := &impl{
		ttl:         config.Ttl,
		pfx:         config.Pfx,
		cache:       config.Cache,
		serialize:   config.Serialize,
		deserialize: config.Deserialize,
	}
	if im.serialize == nil {
		im.serialize = json.Marshal
	}
	if im.deserialize == nil {
		im.deserialize = json.Unmarshal
	}
	return im
}

func (im *impl) key(key string) string {
	return keys.RedisKey(im.pfx, key)
}

func (im *impl) GetByFunc(c ctx.Ctx, key string, container interface{}, getter OneTimeGetter) error {
	switch err := im.Get(c, key, container); {
	case err == nil:
		return nil
	case !xerrors.Is(err, ErrNotFound) && !xerrors.Is(err, ErrCorrupted):
		// the getter still serves the caller while the provider is down
		c.WithFields(log.Fields{"err": err, "key": key}).Warn("Get failed")
	}

	val, err := getter()
	if err != nil {
		return err
	}
	if err := im.Set(c, key, val); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Warn("Set failed")
	}
	reflect.ValueOf(container).Elem().Set(reflect.ValueOf(val).Elem())
	return nil
}

func (im *impl) Get(c ctx.Ctx, key string, container interface{}) error {
	k := im.key(key)
	val, _, err := im.cache.Get(c, k)
	if err == provider.ErrNotFound {
		met.BumpSum("miss", 1, "pfx", im.pfx)
		return ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": k}).Error("cache.Get failed")
		return err
	}

	if err := im.deserialize(val, container); err != nil {
		// drop the entry so the next Set starts clean
		c.WithFields(log.Fields{"err": err, "key": k}).Warn("deserialize failed, evict entry")
		met.BumpSum("corrupted", 1, "pfx", im.pfx)
		if err := im.cache.Del(c, k); err != nil {
			c.WithFields(log.Fields{"err": err, "key": k}).Warn("cache.Del failed")
		}
		return xerrors.Errorf("%s: %v: %w", k, err, ErrCorrupted)
	}
	met.BumpSum("hit", 1, "pfx", im.pfx)
	return nil
}

func (im *impl) Set(c ctx.Ctx, key string, value interface{}) error {
	k := im.key(key)
	val, err := im.serialize(value)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": k}).Error("serialize failed")
		return err
	}
	if err := im.cache.Set(c, k, val, im.ttl); err != nil {
		c.WithFields(log.Fields{"err": err, "key": k}).Error("cache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	k := im.key(key)
	if err := im.cache.Del(c, k); err != nil {
		c.WithFields(log.Fields{"err": err, "key": k}).Error("cache.Del failed")
		return err
	}
	return nil
}
