package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/delivery"
	"github.com/closet-labs/marketapi/base/ptr"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/marketplace"
	"github.com/closet-labs/marketapi/middleware"
)

const defaultRefreshTimeout = 2 * time.Minute

type HandlerCfg struct {
	Registry marketplace.ViewRegistry
	// RefreshTimeout bounds refreshes triggered over http
	RefreshTimeout time.Duration
	// Middlewares guard every session route
	Middlewares []echo.MiddlewareFunc
}

type handler struct {
	registry       marketplace.ViewRegistry
	refreshTimeout time.Duration
}

func New(e *echo.Echo, cfg *HandlerCfg) {
	h := &handler{
		registry:       cfg.Registry,
		refreshTimeout: cfg.RefreshTimeout,
	}
	if h.refreshTimeout <= 0 {
		h.refreshTimeout = defaultRefreshTimeout
	}

	g := e.Group("/marketplace/sessions", cfg.Middlewares...)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.remove)
	g.POST("/:id/refresh", h.refresh)
	g.PUT("/:id/wallet", h.setWallet)
	g.POST("/:id/filters/toggle", h.toggle)
	g.PUT("/:id/filters/price", h.setPriceRange)
	g.DELETE("/:id/filters", h.resetFilters)
	g.GET("/:id/listings/:mint", h.lookup, middleware.IsValidAddress("mint"))
	g.GET("/:id/stream", h.stream)
}

func (h *handler) view(c echo.Context) (marketplace.View, error) {
	ctx := c.Get("ctx").(ctx.Ctx)
	return h.registry.Get(ctx, c.Param("id"))
}

// refreshCtx outlives the request so a client hanging up does not abort a
// refresh other subscribers of the view wait for
func (h *handler) refreshCtx(c echo.Context) (ctx.Ctx, func()) {
	parent := c.Get("ctx").(ctx.Ctx)
	return ctx.WithTimeout(ctx.WithValue(ctx.Detach(parent), "view", c.Param("id")), h.refreshTimeout)
}

// create
//
//	@Summary		Open a marketplace session
//	@Description	Creates a view seeded from the session cache and starts its first refresh
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Param			params	body		http.create.params	false	"session options"
//	@Success		201		{object}	object{data=marketplace.ViewState}
//	@Failure		400
//	@Router			/marketplace/sessions [post]
func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		SessionKey    string         `json:"sessionKey" validate:"omitempty,max=128"`
		Network       domain.Network `json:"network"`
		WalletAddress string         `json:"walletAddress" validate:"omitempty,solanaAddress"`
	}
	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	v, err := h.registry.Create(ctx, marketplace.ViewOptions{
		SessionKey:    strings.TrimSpace(p.SessionKey),
		Network:       p.Network,
		WalletAddress: p.WalletAddress,
	})
	if err != nil {
		ctx.WithField("err", err).Warn("registry.Create failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, v.Snapshot())
}

// get
//
//	@Summary		Get a marketplace session
//	@Description	Filtered assets, facets, selection and loading/error flags
//	@Tags			marketplace
//	@Produce		json
//	@Param			id	path		string	true	"session id"
//	@Success		200	{object}	object{data=marketplace.ViewState}
//	@Failure		404
//	@Router			/marketplace/sessions/{id} [get]
func (h *handler) get(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, v.Snapshot())
}

// remove
//
//	@Summary	Close a marketplace session
//	@Tags		marketplace
//	@Param		id	path	string	true	"session id"
//	@Success	204
//	@Failure	404
//	@Router		/marketplace/sessions/{id} [delete]
func (h *handler) remove(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	if err := h.registry.Remove(ctx, c.Param("id")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// refresh
//
//	@Summary		Refresh a marketplace session
//	@Description	Re-reads the listings. A failed refresh keeps the previous assets and sets error.
//	@Tags			marketplace
//	@Produce		json
//	@Param			id	path		string	true	"session id"
//	@Success		200	{object}	object{data=marketplace.ViewState}
//	@Failure		404
//	@Failure		410
//	@Router			/marketplace/sessions/{id}/refresh [post]
func (h *handler) refresh(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	rc, cancel := h.refreshCtx(c)
	defer cancel()
	if err := v.Refresh(rc); errors.Is(err, domain.ErrSessionClosed) {
		return delivery.MakeJsonResp(c, http.StatusGone, err)
	}
	// the state carries the error flag of a failed refresh
	return delivery.MakeJsonResp(c, http.StatusOK, v.Snapshot())
}

// setWallet
//
//	@Summary		Change the wallet of a session
//	@Description	Persists the wallet to the session cache, then refreshes
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"session id"
//	@Param			params	body		http.setWallet.params	true	"wallet"
//	@Success		200		{object}	object{data=marketplace.ViewState}
//	@Failure		400
//	@Failure		404
//	@Router			/marketplace/sessions/{id}/wallet [put]
func (h *handler) setWallet(c echo.Context) error {
	type params struct {
		WalletAddress string `json:"walletAddress" validate:"omitempty,solanaAddress"`
	}
	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid address")
	}

	v, err := h.view(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	rc, cancel := h.refreshCtx(c)
	defer cancel()
	if err := v.SetWallet(rc, p.WalletAddress); errors.Is(err, domain.ErrSessionClosed) {
		return delivery.MakeJsonResp(c, http.StatusGone, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, v.Snapshot())
}

// toggle
//
//	@Summary		Toggle a filter value
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"session id"
//	@Param			params	body		http.toggle.params	true	"dimension is one of collection, type, category"
//	@Success		200		{object}	object{data=marketplace.ViewState}
//	@Failure		400
//	@Failure		404
//	@Router			/marketplace/sessions/{id}/filters/toggle [post]
func (h *handler) toggle(c echo.Context) error {
	type params struct {
		Dimension string `json:"dimension" validate:"required"`
		Value     string `json:"value" validate:"required"`
	}
	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	d, err := marketplace.ParseDimension(p.Dimension)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	v, err := h.view(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	state, err := v.Toggle(d, p.Value)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, state)
}

// setPriceRange
//
//	@Summary		Set the price bounds
//	@Description	Inclusive SOL bounds as decimal strings, an empty bound is open
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"session id"
//	@Param			params	body		http.setPriceRange.params	true	"bounds"
//	@Success		200		{object}	object{data=marketplace.ViewState}
//	@Failure		400
//	@Failure		404
//	@Router			/marketplace/sessions/{id}/filters/price [put]
func (h *handler) setPriceRange(c echo.Context) error {
	type params struct {
		Min string `json:"min" example:"1.5"`
		Max string `json:"max" example:"3"`
	}
	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	min, err := parseBound(p.Min)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid min price")
	}
	max, err := parseBound(p.Max)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid max price")
	}

	v, err := h.view(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	state, err := v.SetPriceRange(min, max)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, state)
}

func parseBound(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return ptr.Decimal(d), nil
}

// resetFilters
//
//	@Summary	Clear every filter
//	@Tags		marketplace
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	object{data=marketplace.ViewState}
//	@Failure	404
//	@Router		/marketplace/sessions/{id}/filters [delete]
func (h *handler) resetFilters(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, v.ResetFilters())
}

// lookup
//
//	@Summary		Get one asset of a session
//	@Description	Looks the mint up in the full record set, ignoring filters
//	@Tags			marketplace
//	@Produce		json
//	@Param			id		path		string	true	"session id"
//	@Param			mint	path		string	true	"mint address"
//	@Success		200		{object}	object{data=marketplace.AssetRecord}
//	@Failure		404
//	@Router			/marketplace/sessions/{id}/listings/{mint} [get]
func (h *handler) lookup(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	record, ok := v.Lookup(c.Param("mint"))
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusNotFound, domain.ErrNotFound)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, record)
}
