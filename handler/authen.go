package handler

import (
	"errors"
	"log"
	"opta/constants"
	"opta/helper"
	"opta/model"
	"opta/utils"

	"github.com/gofiber/fiber/v2"
)

func Login(c *fiber.Ctx) error {
	loginInput, ok := c.Locals("LoginUser").(model.LoginInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}

	user, err := helper.GetUserByPhone(loginInput.PhoneNumber)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if user == nil {
		log.Printf("login: no user for phone %s", loginInput.PhoneNumber)
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS, errors.New("user not found"))
	}

	if !helper.CheckPasswordHash(loginInput.Password, user.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS, errors.New("password does not match"))
	}

	token, err := helper.GenerateAccessToken(model.TokenClaim{
		UserId:   user.ID,
		UserName: user.UserName,
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.JSON(model.LoginResponse{
		AccessToken: token,
		TokenType:   constants.TOKEN_TYPE,
		UserId:      user.ID,
		UserName:    user.UserName,
		PhoneNumber: user.PhoneNumber,
	})
}
