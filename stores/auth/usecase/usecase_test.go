package usecase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

var (
	mockCtx = ctx.Background()
)

func TestSignAndParseToken(t *testing.T) {
	u := New("jwt-secret", time.Hour)
	tkn, err := u.SignToken(mockCtx, "designer-1", "designer")
	require.NoError(t, err)
	assert.NotEmpty(t, tkn)

	claims, err := u.ParseToken(mockCtx, tkn)
	require.NoError(t, err)
	assert.Equal(t, "designer-1", claims.Id)
	assert.Equal(t, "designer", claims.Role)
}

func TestSignTokenWithoutAccount(t *testing.T) {
	_, err := New("jwt-secret", 0).SignToken(mockCtx, "", "")
	assert.Equal(t, domain.ErrBadParamInput, err)
}

func TestParseTokenRejects(t *testing.T) {
	u := New("jwt-secret", time.Hour)

	other, err := New("another-secret", time.Hour).SignToken(mockCtx, "designer-1", "")
	require.NoError(t, err)

	defer func() { timeNow = time.Now }()
	timeNow = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := u.SignToken(mockCtx, "designer-1", "")
	require.NoError(t, err)
	timeNow = time.Now

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, domain.JwtCustomClaims{Id: "designer-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noId, err := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.JwtCustomClaims{}).SignedString([]byte("jwt-secret"))
	require.NoError(t, err)

	for name, tkn := range map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": other,
		"expired":      expired,
		"alg none":     none,
		"no id":        noId,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := u.ParseToken(mockCtx, tkn)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}
