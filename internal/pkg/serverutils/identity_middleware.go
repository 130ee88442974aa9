package serverutils

import (
	"strings"

	"rmf-policy-be/internal/constant"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const UserIDLocal = "user_id"

// IdentityMiddleware resolves the caller's user id into ctx.Locals. With a
// secret configured a valid bearer token (or ?token= for websockets) is
// required and its user_id claim is used. Without one the X-User-Id header
// is trusted, falling back to the shared default user.
func IdentityMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if secret == "" {
			userID := strings.TrimSpace(ctx.Get("X-User-Id"))
			if userID == "" {
				userID = constant.DefaultUserID
			}
			ctx.Locals(UserIDLocal, userID)
			return ctx.Next()
		}

		tokenStr := ctx.Query("token")
		if authHeader := ctx.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = authHeader[7:]
		}
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
		}
		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Token missing user_id"))
		}

		ctx.Locals(UserIDLocal, userID)
		return ctx.Next()
	}
}

// UserID reads the id set by IdentityMiddleware.
func UserID(ctx *fiber.Ctx) string {
	if id, ok := ctx.Locals(UserIDLocal).(string); ok && id != "" {
		return id
	}
	return constant.DefaultUserID
}
