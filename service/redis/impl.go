package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"
	"golang.org/x/xerrors"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/base/metrics"
	"github.com/closet-labs/marketapi/domain/keys"
)

const (
	// ttl replies for a missing key and for a key without expiry
	ttlNoKey    = -2
	ttlNoExpire = -1

	delBatchSize = 100
)

type redImpl struct {
	name string
	met  metrics.Service
	pool *redis.Pool
}

// New wraps a redigo pool. Every command takes its connection from the pool
// and hands it back as soon as the reply is read.
func New(name string, met metrics.Service, pool *redis.Pool) Service {
	return &redImpl{
		name: name,
		met:  met,
		pool: pool,
	}
}

// do runs one command, bounded by the deadline of c
func (r *redImpl) do(c ctx.Ctx, op, key string, cmd string, args ...interface{}) (interface{}, error) {
	tags := []string{"func", op, "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	conn, err := r.pool.GetContext(c)
	if err != nil {
		r.met.BumpSum("getconn.err", 1, "cluster", r.name)
		return nil, xerrors.Errorf("redis %s: %w", r.name, err)
	}
	defer conn.Close()

	reply, err := redis.DoContext(conn, c, cmd, args...)
	if err != nil && err != redis.ErrNil {
		c.WithFields(log.Fields{"err": err, "cmd": cmd, "key": key}).Error("redis command failed")
		r.met.BumpSum("err", 1, tags...)
	}
	return reply, err
}

func (r *redImpl) Get(c ctx.Ctx, key string) ([]byte, error) {
	val, err := redis.Bytes(r.do(c, "get", key, "GET", key))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	r.met.BumpHistogram("bytes", float64(len(val)), "cluster", r.name)
	return val, nil
}

func (r *redImpl) GetZip(c ctx.Ctx, key string) ([]byte, error) {
	val, err := r.Get(c, key)
	if err != nil {
		return nil, err
	}
	res, err := unzip(val)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Warn("unzip failed")
		return nil, err
	}
	return res, nil
}

func (r *redImpl) Set(c ctx.Ctx, key string, val []byte, expire time.Duration) error {
	args := []interface{}{key, val}
	if expire != Forever {
		args = append(args, "PX", expire.Milliseconds())
	}
	r.met.BumpHistogram("bytes", float64(len(val)), "cluster", r.name)
	_, err := r.do(c, "set", key, "SET", args...)
	return err
}

func (r *redImpl) SetZip(c ctx.Ctx, key string, val []byte, expire time.Duration) error {
	zipped, err := zip(val)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("zip failed")
		return err
	}
	return r.Set(c, key, zipped, expire)
}

func (r *redImpl) Del(c ctx.Ctx, ks ...string) (int, error) {
	if len(ks) == 0 {
		return 0, xerrors.New("no keys to delete")
	}

	deleted := 0
	for len(ks) > 0 {
		n := delBatchSize
		if n > len(ks) {
			n = len(ks)
		}
		res, err := redis.Int(r.do(c, "del", ks[0], "DEL", redis.Args{}.AddFlat(ks[:n])...))
		if err != nil {
			return deleted, err
		}
		deleted += res
		ks = ks[n:]
	}
	return deleted, nil
}

func (r *redImpl) Exists(c ctx.Ctx, key string) (bool, error) {
	return redis.Bool(r.do(c, "exists", key, "EXISTS", key))
}

func (r *redImpl) TTL(c ctx.Ctx, key string) (int, error) {
	res, err := redis.Int(r.do(c, "ttl", key, "TTL", key))
	if err != nil {
		return 0, err
	}
	switch res {
	case ttlNoKey:
		return res, ErrNotFound
	case ttlNoExpire:
		return res, ErrNoTTL
	}
	return res, nil
}

func (r *redImpl) Ping(c ctx.Ctx) error {
	_, err := redis.String(r.do(c, "ping", "", "PING"))
	return err
}
