package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/K-AMeus/PartynApp/internal/domain/auth"
)

// claimsContextKey はechoコンテキストに格納する認証クレームのキー
const claimsContextKey = "auth.claims"

// JWT はBearerトークンを検証し、クレームをコンテキストに格納するミドルウェアを返す。
// トークンが無い・不正な場合は401を返す。admin クレームが無い場合は false として扱う。
func JWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証トークンが必要です")
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorizationヘッダーの形式が不正です")
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("想定外の署名方式: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証トークンが無効です")
			}

			subject, _ := claims["sub"].(string)
			admin, _ := claims["admin"].(bool)

			c.Set(claimsContextKey, auth.Claims{
				Subject: subject,
				Admin:   admin,
			})
			return next(c)
		}
	}
}

// ClaimsFrom はコンテキストから認証クレームを取り出す。
// 未認証の場合はゼロ値（非管理者）を返す。
func ClaimsFrom(c echo.Context) auth.Claims {
	if claims, ok := c.Get(claimsContextKey).(auth.Claims); ok {
		return claims
	}
	return auth.Claims{}
}

// SetClaims はテスト用にクレームをコンテキストへ直接設定する。
func SetClaims(c echo.Context, claims auth.Claims) {
	c.Set(claimsContextKey, claims)
}
