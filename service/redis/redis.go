package redis

import (
	"errors"
	"time"

	"github.com/closet-labs/marketapi/base/ctx"
)

// Forever is the expire value for keys without ttl
const Forever = time.Duration(-1)

var (
	ErrNotFound = errors.New("redis: key not found")
	ErrNoTTL    = errors.New("redis: key has no ttl")
)

// Service is the subset of redis commands the api uses
type Service interface {
	Get(c ctx.Ctx, key string) ([]byte, error)
	// GetZip reads a value written by SetZip
	GetZip(c ctx.Ctx, key string) ([]byte, error)
	Set(c ctx.Ctx, key string, val []byte, expire time.Duration) error
	// SetZip gzips the value before writing it
	SetZip(c ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(c ctx.Ctx, keys ...string) (int, error)
	Exists(c ctx.Ctx, key string) (bool, error)
	// TTL returns the remaining time to live of key in seconds
	TTL(c ctx.Ctx, key string) (int, error)
	Ping(c ctx.Ctx) error
}
