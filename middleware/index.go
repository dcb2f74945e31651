package middleware

import (
	"errors"
	"opta/constants"
	"opta/helper"
	"opta/model"
	"opta/utils"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// OptionalJWT lets anonymous requests through but rejects a bearer token that
// does not verify. A verified claim is stored under Locals("claim").
func OptionalJWT() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("malformed Authorization header"))
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := helper.ParseToken(tokenString)
		if err != nil || !token.Valid {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
		}

		claim, err := helper.ClaimFromToken(token)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
		}

		c.Locals("claim", claim)
		return c.Next()
	}
}

// CurrentClaim returns the claim set by OptionalJWT, if any.
func CurrentClaim(c *fiber.Ctx) (model.TokenClaim, bool) {
	claim, ok := c.Locals("claim").(model.TokenClaim)
	return claim, ok
}

// AllowsUser reports whether the caller may act for userId: anonymous callers
// may, token holders only for themselves.
func AllowsUser(c *fiber.Ctx, userId uint) bool {
	claim, ok := CurrentClaim(c)
	return !ok || claim.UserId == userId
}
