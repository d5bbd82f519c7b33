package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"

	"github.com/ibrahim77gh/cre-studio-backend/internal/consts"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/cache"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/http"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/http/jwt"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/log"
)

// AuthorizationMiddleware validates the bearer token and verifies the
// session still exists in Redis. Parsed claims are stored in locals under
// consts.CLAIMS.
func AuthorizationMiddleware(secretKey string, client cache.ICache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get("Authorization")
		if aToken == "" {
			return http.WithRepErrMsg(c, http.TokenBeEmpty.Code, http.TokenBeEmpty.Msg, c.Path())
		}

		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return http.WithRepErrMsg(c, http.TokenFormatIncorrect.Code, http.TokenFormatIncorrect.Msg, c.Path())
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
			}
			log.Errorf("parse token failed: %v", err)
			return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
		}

		// sessions are revocable: the token must still be present in Redis
		tokenKey := consts.UserTokenKey + claims.Subject
		exists, err := client.Exists(context.Background(), tokenKey).Result()
		if err != nil {
			log.Errorf("redis check token exists failed: %v", err)
			return http.WithRepErrMsg(c, http.InternalError.Code, http.InternalError.Msg, c.Path())
		}
		if exists == 0 {
			return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
		}

		c.Locals(consts.CLAIMS, claims)
		return c.Next()
	}
}
