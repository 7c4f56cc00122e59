package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

const (
	// ClaimsKey holds the *domain.JwtCustomClaims of an authenticated request
	ClaimsKey = "claims"
	// AccountIdKey holds the account (designer) id of an authenticated request
	AccountIdKey = "accountId"
)

type AuthMiddleware struct {
	auth domain.AuthUsecase
}

func New(auth domain.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// Auth requires an `Authorization: Bearer <jwt>` header
func (m *AuthMiddleware) Auth() echo.MiddlewareFunc {
	return middleware.KeyAuth(m.validateAuthToken)
}

func (m *AuthMiddleware) validateAuthToken(key string, c echo.Context) (bool, error) {
	ctx := c.Get("ctx").(ctx.Ctx)
	claims, err := m.auth.ParseToken(ctx, key)
	if err != nil {
		ctx.WithField("err", err).Warn("auth.ParseToken failed")
		return false, nil
	}
	c.Set(ClaimsKey, claims)
	c.Set(AccountIdKey, claims.Id)
	return true, nil
}

// AccountId returns the id set by Auth, empty for anonymous requests
func AccountId(c echo.Context) string {
	id, _ := c.Get(AccountIdKey).(string)
	return id
}
