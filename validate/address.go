package validate

import (
	"errors"
	"opta/constants"
	"opta/model"
	"opta/utils"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
)

// NormalizeTag lower-cases and slugs a tag so "Home " and "HOME" both become "home".
func NormalizeTag(tag string) string {
	return slug.Make(strings.TrimSpace(tag))
}

func CreateAddress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.AddressRecord

		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Bad request: invalid JSON body", err)
		}
		input.Address = strings.TrimSpace(input.Address)
		input.Tag = NormalizeTag(input.Tag)

		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, describe(err), err)
		}

		c.Locals("AddressRecord", input)
		return c.Next()
	}
}

func ReverseGeocode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, okLat := utils.QueryFloat(c, "lat")
		lng, okLng := utils.QueryFloat(c, "lng")
		coord := model.Coordinate{Latitude: lat, Longitude: lng}
		if !okLat || !okLng || !coord.Valid() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_COORDINATE, errors.New("query invalid"))
		}

		c.Locals("coordinate", coord)
		return c.Next()
	}
}
