package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/closet-labs/marketapi/base/ctx"
	hcdomain "github.com/closet-labs/marketapi/domain/healthcheck"
)

// ResponseError represent the reseponse error struct
type ResponseError struct {
	Message string `json:"message"`
}

type healthCheckHandler struct {
	healthCheck hcdomain.HealthCheckUsecase
}

func New(e *echo.Echo, us hcdomain.HealthCheckUsecase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	e.GET("/health", handler.check)
}

// check
//
//	@Summary		Health check
//	@Description	Pings the configured mongo and redis
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	object{healthy=string}
//	@Failure		503	{object}	ResponseError
//	@Router			/health [get]
func (h *healthCheckHandler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)
	if err := h.healthCheck.Check(context); err != nil {
		return c.JSON(http.StatusServiceUnavailable, ResponseError{
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"healthy": "ok",
	})
}
