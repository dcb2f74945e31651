package handler

import (
	"errors"
	"opta/constants"
	"opta/geocode"
	"opta/helper"
	"opta/model"
	"opta/utils"

	"github.com/gofiber/fiber/v2"
)

// ReverseGeocode proxies a coordinate lookup so clients never hold the provider key.
func ReverseGeocode(c *fiber.Ctx) error {
	coord := c.Locals("coordinate").(model.Coordinate)

	formatted, err := helper.ReverseGeocode(c.UserContext(), coord)
	if err != nil {
		if errors.Is(err, geocode.ErrNoResults) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ADDRESS_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusBadGateway, constants.GEOCODER_UNAVAILABLE, err)
	}

	return c.JSON(model.ReverseGeocodeResponse{FormattedAddress: formatted})
}

func Ping(c *fiber.Ctx) error {
	return utils.MessageResponse(c, fiber.StatusOK, "hi")
}
