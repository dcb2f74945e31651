package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse writes {detail, error}; clients surface detail verbatim.
func ErrorResponse(c *fiber.Ctx, status int, detail string, err error) error {
	var errMsg interface{}
	if err != nil {
		errMsg = err.Error()
	} else {
		errMsg = nil
	}
	return c.Status(status).JSON(fiber.Map{
		"detail": detail,
		"error":  errMsg,
	})
}

func MessageResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
	})
}

// QueryUint parses a positive integer query parameter.
func QueryUint(c *fiber.Ctx, key string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(key), 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// QueryFloat parses a float query parameter.
func QueryFloat(c *fiber.Ctx, key string) (float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
