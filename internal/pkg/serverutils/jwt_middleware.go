package serverutils

import (
	"strings"

	"subtracker-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userIdLocal = "user_id"

// JwtMiddleware verifies a provider-issued HS256 bearer token and stores the caller's
// id in ctx.Locals. The id is read from "sub", falling back to "user_id".
func JwtMiddleware(secret string) fiber.Handler {
	key := []byte(secret)
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenStr == "" {
			return apperror.NewUnauthorized("Missing token")
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return apperror.NewUnauthorized("Invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return apperror.NewUnauthorized("Invalid claims")
		}

		raw, _ := claims["sub"].(string)
		if raw == "" {
			raw, _ = claims["user_id"].(string)
		}
		userId, err := uuid.Parse(raw)
		if err != nil {
			return apperror.NewUnauthorized("Invalid subject")
		}

		ctx.Locals(userIdLocal, userId)
		return ctx.Next()
	}
}

// CurrentUserID returns the id stored by JwtMiddleware.
func CurrentUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, ok := ctx.Locals(userIdLocal).(uuid.UUID)
	if !ok || userId == uuid.Nil {
		return uuid.Nil, apperror.NewUnauthorized("Unauthorized")
	}
	return userId, nil
}
