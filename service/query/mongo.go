package query

/*
	Package query wraps https://github.com/mongodb/mongo-go-driver for the
	stores. Read the testcases for usage of each method.
*/

import (
	"fmt"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")
)

// Mongo abstracts the mongo layer
type Mongo interface {
	Insert(c ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne returns ErrNotFound when nothing matches
	FindOne(c ctx.Ctx, table domain.Table, query, result interface{}) error

	// Count returns the number of documents matching selector
	Count(c ctx.Ctx, table domain.Table, selector interface{}) (int, error)

	// Search sorts by `sort` ("createdAt" ascending, "-createdAt" descending).
	// An empty sort leaves the order to mongo. limit 0 means no limit.
	Search(c ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// Remove returns ErrNotFound if selector does not match any document
	Remove(c ctx.Ctx, table domain.Table, selector interface{}) error

	// EnsureIndex creates an ascending index over keys, idempotent
	EnsureIndex(c ctx.Ctx, table domain.Table, unique bool, keys ...string) error
}
