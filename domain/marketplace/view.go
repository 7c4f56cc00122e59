package marketplace

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

// ViewState is what a view exposes to its renderer.
type ViewState struct {
	Id            string          `json:"id"`
	SessionKey    string          `json:"sessionKey"`
	Network       domain.Network  `json:"network"`
	WalletAddress string          `json:"walletAddress"`
	Assets        []AssetRecord   `json:"assets"`
	Total         int             `json:"total"`
	Facets        FacetIndex      `json:"facets"`
	Selection     FilterSelection `json:"selection"`
	IsLoading     bool            `json:"isLoading"`
	// Error is set when the latest refresh failed. Assets then still hold the
	// last good record set.
	Error     string    `json:"error,omitempty"`
	Version   uint64    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View owns one record set, its facet index and a filter selection. All methods
// are safe for concurrent use.
type View interface {
	Id() string
	Snapshot() ViewState
	Lookup(mint string) (AssetRecord, bool)

	// Refresh runs one fetch cycle. Results of a refresh started before the last
	// applied one are discarded with ErrStaleRefresh.
	Refresh(c ctx.Ctx) error
	// SetWallet persists the new wallet and then refreshes
	SetWallet(c ctx.Ctx, walletAddress string) error

	Toggle(d Dimension, value string) (ViewState, error)
	SetPriceRange(min, max *decimal.Decimal) (ViewState, error)
	ResetFilters() ViewState

	// Subscribe delivers the latest state after every change. Slow readers only
	// see the newest state. The channel is closed on Close or cancel.
	Subscribe() (<-chan ViewState, func())
	// Subscribers counts the open subscriptions
	Subscribers() int
	// Close stops the view from applying any further update
	Close()
}

type ViewOptions struct {
	SessionKey    string
	Network       domain.Network
	WalletAddress string
}

type ViewRegistry interface {
	Create(c ctx.Ctx, opts ViewOptions) (View, error)
	Get(c ctx.Ctx, id string) (View, error)
	Remove(c ctx.Ctx, id string) error
	// RefreshAll refreshes every live view, waiting for all of them
	RefreshAll(c ctx.Ctx)
	// Evict closes views not accessed within idle. Views with subscribers are kept.
	Evict(c ctx.Ctx, idle time.Duration) int
}
