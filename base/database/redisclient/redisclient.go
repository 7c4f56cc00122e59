package redisclient

import (
	"context"
	"runtime"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/closet-labs/marketapi/base/backoff"
	"github.com/closet-labs/marketapi/base/log"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1500 * time.Millisecond
	writeTimeout = 1500 * time.Millisecond
)

type Cfg struct {
	Uri      string
	Password string
	// PoolMultiplier scales the pool by the cpu count, 0 keeps the defaults
	PoolMultiplier float64
	// Retries is the number of extra dial attempts, with exponential backoff
	Retries int
}

// MustConnectRedis panics if redis is unreachable
func MustConnectRedis(cfg Cfg) *redis.Pool {
	p, err := ConnectRedis(cfg)
	if err != nil {
		log.Log().WithFields(log.Fields{"redisURI": cfg.Uri, "err": err}).Panic("fail to dial Redis")
	}
	return p
}

// NewPool builds the pool without touching the network
func NewPool(cfg Cfg) *redis.Pool {
	maxIdle, maxActive := 200, 1024
	if cfg.PoolMultiplier > 0 {
		cpu := float64(runtime.NumCPU())
		// allowing 25% idle connection
		maxIdle = int(cpu * cfg.PoolMultiplier / 4)
		maxActive = int(cpu * cfg.PoolMultiplier)
	}

	opts := []redis.DialOption{
		redis.DialConnectTimeout(dialTimeout),
		redis.DialReadTimeout(readTimeout),
		redis.DialWriteTimeout(writeTimeout),
	}
	if cfg.Password != "" {
		opts = append(opts, redis.DialPassword(cfg.Password))
	}
	return &redis.Pool{
		MaxIdle:     maxIdle,
		MaxActive:   maxActive,
		Wait:        true,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", cfg.Uri, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			// recently used connections are assumed alive
			if time.Since(t) < time.Second {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// ConnectRedis builds the pool and checks one connection before handing it out
func ConnectRedis(cfg Cfg) (*redis.Pool, error) {
	p := NewPool(cfg)
	bo := backoff.NewExponential(time.Second, 8*time.Second)
	err := backoff.Retry(context.Background(), bo, cfg.Retries, func(attempt int) error {
		err := ping(p)
		if err != nil {
			log.Log().WithFields(log.Fields{
				"redisURI": cfg.Uri,
				"err":      err,
				"attempt":  attempt,
			}).Error("fail to dial Redis")
		}
		return err
	})
	if err != nil {
		p.Close()
		return nil, err
	}

	log.Log().WithField("redisURI", cfg.Uri).Info("redis connected")
	return p, nil
}

func ping(p *redis.Pool) error {
	c, err := p.Dial()
	if err != nil {
		return err
	}
	defer c.Close()
	_, err = c.Do("PING")
	return err
}
