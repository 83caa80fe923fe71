package handlers

import (
	"civiceye/middleware"
	"civiceye/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, gamification *services.GamificationService) {
	app.Post("/users/register", func(c *fiber.Ctx) error {
		var req services.RegisterInput
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		if err := middleware.ValidateStruct(req); err != nil {
			return badRequest(c, "invalid registration", err)
		}
		u, err := userService.Register(c.Context(), req)
		if err != nil {
			return fail(c, "registration failed", err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	})

	secured := app.Group("/s")

	// The profile carries level progress, resolved badges and rank.
	secured.Get("/me", func(c *fiber.Ctx) error {
		profile, err := gamification.Profile(c.Context(), userID(c))
		if err != nil {
			return fail(c, "failed to load profile", err)
		}
		return c.JSON(profile)
	})
}
