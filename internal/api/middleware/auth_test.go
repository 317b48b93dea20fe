package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/K-AMeus/PartynApp/internal/domain/auth"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthTestEcho() *echo.Echo {
	e := echo.New()
	e.POST("/protected", func(c echo.Context) error {
		claims := ClaimsFrom(c)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"sub":   claims.Subject,
			"admin": claims.Admin,
		})
	}, JWT(testSecret))
	return e
}

func TestJWT(t *testing.T) {
	e := newAuthTestEcho()

	t.Run("有効なトークンでクレームが取得できる", func(t *testing.T) {
		token := signTestToken(t, jwt.MapClaims{
			"sub":   "user-1",
			"admin": true,
			"exp":   time.Now().Add(time.Hour).Unix(),
		}, testSecret)

		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"sub": "user-1", "admin": true}`, rec.Body.String())
	})

	t.Run("adminクレームが無い場合は非管理者", func(t *testing.T) {
		token := signTestToken(t, jwt.MapClaims{
			"sub": "user-2",
			"exp": time.Now().Add(time.Hour).Unix(),
		}, testSecret)

		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"sub": "user-2", "admin": false}`, rec.Body.String())
	})

	t.Run("トークン無しは401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Bearerプレフィックスが無い場合は401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set(echo.HeaderAuthorization, "invalid-header")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("別の鍵で署名されたトークンは401", func(t *testing.T) {
		token := signTestToken(t, jwt.MapClaims{
			"sub": "user-3",
			"exp": time.Now().Add(time.Hour).Unix(),
		}, "wrong-secret")

		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("期限切れトークンは401", func(t *testing.T) {
		token := signTestToken(t, jwt.MapClaims{
			"sub": "user-4",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}, testSecret)

		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestClaimsFrom_Unauthenticated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	claims := ClaimsFrom(c)

	assert.Equal(t, auth.Claims{}, claims)
	assert.False(t, claims.Admin)
}
