package usecase

import (
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/xerrors"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

const defaultTokenTtl = 24 * time.Hour

var (
	timeNow = time.Now
)

type impl struct {
	jwtSecret []byte
	ttl       time.Duration
}

// New verifies HS256 tokens signed with jwtSecret, the secret shared with the
// account service that issues them.
func New(jwtSecret string, ttl time.Duration) domain.AuthUsecase {
	if ttl <= 0 {
		ttl = defaultTokenTtl
	}
	return &impl{
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
	}
}

func (im *impl) SignToken(c ctx.Ctx, accountId, role string) (string, error) {
	if accountId == "" {
		return "", domain.ErrBadParamInput
	}
	claims := domain.JwtCustomClaims{
		Id:   accountId,
		Role: role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  timeNow().Unix(),
			ExpiresAt: timeNow().Add(im.ttl).Unix(),
		},
	}

	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(im.jwtSecret)
	if err != nil {
		c.WithField("err", err).Error("token.SignedString failed")
		return "", err
	}
	return ss, nil
}

func (im *impl) ParseToken(c ctx.Ctx, str string) (*domain.JwtCustomClaims, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.Errorf("unexpected signing method %v: %w", token.Header["alg"], domain.ErrUnauthorized)
		}
		return im.jwtSecret, nil
	})
	if err != nil {
		return nil, xerrors.Errorf("invalid token: %v: %w", err, domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*domain.JwtCustomClaims)
	if !ok || !token.Valid || claims.Id == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
