package router

import (
	"opta/handler"
	"opta/middleware"
	"opta/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	app.Use(logger.New())

	app.Get("/test", handler.Ping)

	app.Post("/login", validate.LoginUser(), handler.Login)
	app.Post("/register", validate.RegisterUser(), handler.Register)

	app.Get("/get-address", middleware.OptionalJWT(), validate.GetUserId("data"), handler.GetAddresses)
	app.Post("/address", middleware.OptionalJWT(), validate.CreateAddress(), handler.CreateAddress)

	geo := app.Group("/geocode")
	geo.Get("/reverse", validate.ReverseGeocode(), handler.ReverseGeocode)
}
