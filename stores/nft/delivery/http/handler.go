package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/delivery"
	"github.com/closet-labs/marketapi/domain"
	"github.com/closet-labs/marketapi/domain/nft"
	authMiddleware "github.com/closet-labs/marketapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	nft nft.Usecase
}

func New(e *echo.Echo, nftUsecase nft.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{nftUsecase}

	g := e.Group("/api", authMiddleware.Auth())
	g.POST("/saveNFT", h.create)
	g.GET("/nfts", h.list)
}

// create
//
//	@Summary		Save an NFT record
//	@Description	Registers a minted token for the designer of the bearer token
//	@Tags			nfts
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		nft.CreateParams	true	"token and wallet address"
//	@Success		201		{object}	object{data=nft.NFT}
//	@Failure		400
//	@Failure		401
//	@Failure		500
//	@Router			/api/saveNFT [post]
func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &nft.CreateParams{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "Token address and wallet address are required.")
	}

	record, err := h.nft.Create(ctx, authMiddleware.AccountId(c), p)
	if err != nil {
		ctx.WithField("err", err).Error("nft.Create failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, record)
}

// list
//
//	@Summary		List NFT records
//	@Description	NFT records of the designer of the bearer token, newest first
//	@Tags			nfts
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			offset	query		int	false	"offset"
//	@Param			limit	query		int	false	"limit, at most 100"
//	@Success		200		{object}	object{data=object{items=[]nft.NFT,count=int}}
//	@Failure		401
//	@Failure		500
//	@Router			/api/nfts [get]
func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Offset int `query:"offset"`
		Limit  int `query:"limit"`
	}
	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	items, count, err := h.nft.FindByDesigner(ctx, authMiddleware.AccountId(c), p.Offset, p.Limit)
	if err != nil {
		ctx.WithField("err", err).Error("nft.FindByDesigner failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	type response struct {
		Items []*nft.NFT `json:"items"`
		Count int        `json:"count"`
	}
	return delivery.MakeJsonResp(c, http.StatusOK, response{items, count})
}
