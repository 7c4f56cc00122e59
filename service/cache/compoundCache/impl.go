package compoundcache

import (
	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/service/cache"
)

type impl struct {
	layers []cache.Service
}

// NewCompoundCache reads through layers in order, nearest first. A layer that
// errors on Get is skipped so a broken remote cache degrades to the local one.
func NewCompoundCache(layers []cache.Service) cache.Service {
	return &impl{
		layers: layers,
	}
}

func (im *impl) GetByFunc(c ctx.Ctx, key string, container interface{}, getter cache.OneTimeGetter) error {
	if err := im.Get(c, key, container); err == nil {
		return nil
	}

	val, err := getter()
	if err != nil {
		return err
	}
	if err := im.Set(c, key, val); err != nil {
		c.WithField("err", err).WithField("key", key).Warn("Set failed")
	}
	return im.Get(c, key, container)
}

func (im *impl) Get(c ctx.Ctx, key string, container interface{}) error {
	hitIdx := -1
	for idx, lyr := range im.layers {
		err := lyr.Get(c, key, container)
		if err == nil {
			hitIdx = idx
			break
		} else if err != cache.ErrNotFound {
			c.WithField("err", err).WithField("key", key).WithField("layer", idx).Warn("layer Get failed")
		}
	}
	if hitIdx == -1 {
		return cache.ErrNotFound
	}

	// backfill the nearer layers
	for idx := 0; idx < hitIdx; idx++ {
		if err := im.layers[idx].Set(c, key, container); err != nil {
			c.WithField("err", err).WithField("key", key).WithField("layer", idx).Warn("layer backfill failed")
		}
	}
	return nil
}

// Set writes every layer and returns the first failure
func (im *impl) Set(c ctx.Ctx, key string, value interface{}) error {
	var first error
	for _, lyr := range im.layers {
		if err := lyr.Set(c, key, value); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	var first error
	for _, lyr := range im.layers {
		if err := lyr.Del(c, key); err != nil && first == nil {
			first = err
		}
	}
	return first
}
