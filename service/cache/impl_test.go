package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain/keys"
	"github.com/closet-labs/marketapi/service/cache/provider"
	"github.com/closet-labs/marketapi/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type value struct {
	Value string `json:"value"`
}

type testsuite struct {
	suite.Suite
	im    *impl
	cache provider.Provider
}

func (ts *testsuite) SetupTest() {
	ts.cache = primitive.NewPrimitive("test", 1)
	ts.im = New(ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   "testing",
		Cache: ts.cache,
	}).(*impl)
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestSetGet() {
	c := &value{}
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "key", c))

	ts.NoError(ts.im.Set(mockCtx, "key", value{"v"}))
	ts.NoError(ts.im.Get(mockCtx, "key", c))
	ts.Equal(value{"v"}, *c)

	raw, _, err := ts.cache.Get(mockCtx, keys.RedisKey("testing", "key"))
	ts.NoError(err)
	ts.JSONEq(`{"value":"v"}`, string(raw))

	ts.NoError(ts.im.Del(mockCtx, "key"))
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "key", c))
}

func (ts *testsuite) TestGetCorrupted() {
	ts.NoError(ts.cache.Set(mockCtx, keys.RedisKey("testing", "key"), []byte("{not json"), time.Minute))
	c := &value{}
	err := ts.im.Get(mockCtx, "key", c)
	ts.ErrorIs(err, ErrCorrupted)

	// evicted on read
	_, _, err = ts.cache.Get(mockCtx, keys.RedisKey("testing", "key"))
	ts.Equal(provider.ErrNotFound, err)
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "key", c))
}

func (ts *testsuite) TestGetByFuncRefillsCorrupted() {
	ts.NoError(ts.cache.Set(mockCtx, keys.RedisKey("testing", "key"), []byte("{not json"), time.Minute))
	c := &value{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "key", c, func() (interface{}, error) {
		return &value{"fresh"}, nil
	}))
	ts.Equal("fresh", c.Value)

	c = &value{}
	ts.NoError(ts.im.Get(mockCtx, "key", c))
	ts.Equal("fresh", c.Value)
}

func (ts *testsuite) TestGetByFunc() {
	calls := 0
	getter := func() (interface{}, error) {
		calls++
		return &value{"fresh"}, nil
	}

	c := &value{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "key", c, getter))
	ts.Equal("fresh", c.Value)

	c = &value{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "key", c, getter))
	ts.Equal("fresh", c.Value)
	ts.Equal(1, calls)
}

func (ts *testsuite) TestGetByFuncGetterFails() {
	errGetter := errors.New("rpc down")
	c := &value{}
	err := ts.im.GetByFunc(mockCtx, "key", c, func() (interface{}, error) {
		return nil, errGetter
	})
	ts.Equal(errGetter, err)
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "key", c))
}
