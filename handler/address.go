package handler

import (
	"errors"
	"log"
	"opta/constants"
	"opta/helper"
	"opta/middleware"
	"opta/model"
	"opta/utils"

	"github.com/gofiber/fiber/v2"
)

const IdempotencyHeader = "Idempotency-Key"

func CreateAddress(c *fiber.Ctx) error {
	record, ok := c.Locals("AddressRecord").(model.AddressRecord)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}

	if !middleware.AllowsUser(c, record.UserId) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN_USER, nil)
	}

	idemKey := c.Get(IdempotencyHeader)
	if len(idemKey) > 64 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Bad request: Idempotency-Key too long", nil)
	}

	created, err := helper.CreateAddress(c.UserContext(), record, idemKey)
	if err != nil {
		if errors.Is(err, helper.ErrIdempotencyKeyConflict) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Bad request: "+err.Error(), err)
		}
		log.Println("create address:", err)
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_CREATE, err)
	}
	if !created {
		log.Printf("address replay for user %d key %s", record.UserId, idemKey)
	}

	return utils.MessageResponse(c, fiber.StatusOK, constants.ADDRESS_SUCCESS)
}

func GetAddresses(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	if !middleware.AllowsUser(c, userId) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN_USER, nil)
	}

	addresses, err := helper.GetUserAddresses(c.UserContext(), userId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return c.JSON(model.AddressList{Addresses: addresses})
}
