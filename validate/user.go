package validate

import (
	"opta/constants"
	"opta/model"
	"opta/utils"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func RegisterUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.RegisterInput

		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Bad request: invalid JSON body", err)
		}
		input.UserName = strings.TrimSpace(input.UserName)
		input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)

		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, describe(err), err)
		}

		c.Locals("RegisterUser", input)
		return c.Next()
	}
}

func LoginUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.LoginInput

		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, err)
		}
		input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)

		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, err)
		}

		c.Locals("LoginUser", input)
		return c.Next()
	}
}
