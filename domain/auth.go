package domain

import (
	"github.com/golang-jwt/jwt"

	"github.com/closet-labs/marketapi/base/ctx"
)

// JwtCustomClaims is the bearer token payload. Id is the account (designer) id.
type JwtCustomClaims struct {
	Id   string `json:"id"`
	Role string `json:"role"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	SignToken(ctx ctx.Ctx, accountId, role string) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (*JwtCustomClaims, error)
}
