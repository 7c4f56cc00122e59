package domain

import (
	"github.com/closet-labs/marketapi/base/ctx"
)

type WebResourceReaderRepository interface {
	Get(ctx.Ctx, string) ([]byte, error)
}

type WebResourceUseCase interface {
	// Get reads the raw resource behind an http(s), ipfs, ar or data uri
	Get(ctx.Ctx, string) ([]byte, error)
	// GetJson is Get plus a check that the payload is a json document
	GetJson(ctx.Ctx, string) ([]byte, error)
}
