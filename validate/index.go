package validate

import (
	"errors"
	"fmt"
	"opta/constants"
	"opta/utils"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// describe turns validator errors into a single "Bad request: ..." detail.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Bad request: " + err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return "Bad request: " + strings.Join(parts, "; ")
}

// GetUserId validates the ?data=<userId> query and stores it as Locals("userId").
func GetUserId(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId, ok := utils.QueryUint(c, key)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("query invalid"))
		}

		c.Locals("userId", userId)
		return c.Next()
	}
}
