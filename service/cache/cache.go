package cache

import (
	"errors"
	"time"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/service/cache/provider"
)

var (
	ErrNotFound = errors.New("Cache not found")
	// ErrCorrupted is returned for an entry that could not be deserialized. The
	// entry is evicted.
	ErrCorrupted = errors.New("Cache entry corrupted")
)

type OneTimeGetter func() (interface{}, error)

type Serializer func(interface{}) ([]byte, error)

type Deserializer func([]byte, interface{}) error

// high order cache service
type Service interface {
	// GetByFunc fills container from cache, falling back to getter and caching its result.
	// getter must return a pointer of the container type.
	GetByFunc(c ctx.Ctx, key string, container interface{}, getter OneTimeGetter) error
	Get(c ctx.Ctx, key string, container interface{}) error
	Set(c ctx.Ctx, key string, value interface{}) error
	Del(c ctx.Ctx, key string) error
}

type ServiceConfig struct {
	Ttl         time.Duration
	Pfx         string
	Cache       provider.Provider
	Serialize   Serializer
	Deserialize Deserializer
}
