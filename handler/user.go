package handler

import (
	"errors"
	"log"
	"opta/constants"
	"opta/database"
	"opta/helper"
	"opta/model"
	"opta/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

func Register(c *fiber.Ctx) error {
	db := database.DB

	input, ok := c.Locals("RegisterUser").(model.RegisterInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}

	exists, err := helper.CheckByPhoneNumber(input.PhoneNumber)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if exists {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.PHONE_ALREADY_REGISTERED, nil)
	}

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, helper.ErrPasswordTooLong) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Bad request: "+err.Error(), err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CAN_NOT_HASH_PASSWORD, err)
	}

	newUser := new(model.User)
	copier.Copy(newUser, &input)
	newUser.Password = hash

	if err := db.Create(newUser).Error; err != nil {
		// lost a race with a concurrent registration for the same phone
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrorResponse(c, fiber.StatusConflict, constants.PHONE_ALREADY_REGISTERED, nil)
		}
		log.Println("register:", err)
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_CREATE, err)
	}

	log.Printf("Registered user id=%d phone=%s", newUser.ID, newUser.PhoneNumber)
	return utils.MessageResponse(c, fiber.StatusOK, constants.REGISTER_SUCCESS)
}
