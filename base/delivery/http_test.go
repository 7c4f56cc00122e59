package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/closet-labs/marketapi/domain"
)

func respond(t *testing.T, status int, data interface{}) (int, JsonResponse) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, MakeJsonResp(c, status, data))

	res := JsonResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return rec.Code, res
}

func TestMakeJsonResp(t *testing.T) {
	code, res := respond(t, http.StatusOK, map[string]int{"total": 2})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, JsonResponseStatusSuccess, res.Status)
	assert.Equal(t, map[string]interface{}{"total": float64(2)}, res.Data)

	code, res = respond(t, http.StatusBadRequest, "invalid address")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, JsonResponseStatusFail, res.Status)
	assert.Equal(t, "invalid address", res.Data)
}

func TestMakeJsonRespError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", xerrors.Errorf("session abc: %w", domain.ErrNotFound), http.StatusNotFound},
		{"price range", domain.ErrInvalidPriceRange, http.StatusBadRequest},
		{"dimension", domain.ErrUnknownDimension, http.StatusBadRequest},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"closed", domain.ErrSessionClosed, http.StatusGone},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, res := respond(t, http.StatusInternalServerError, tt.err)
			assert.Equal(t, tt.want, code)
			assert.Equal(t, tt.err.Error(), res.Data)
			assert.Equal(t, JsonResponseStatusFail, res.Status)
		})
	}
}
