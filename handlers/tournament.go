package handlers

import (
	"civiceye/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService) {
	app.Get("/tournaments", func(c *fiber.Ctx) error {
		list, err := tournamentService.List(c.Context())
		if err != nil {
			return fail(c, "failed to list tournaments", err)
		}
		return c.JSON(list)
	})

	app.Get("/tournaments/:id/standings", func(c *fiber.Ctx) error {
		standings, err := tournamentService.Standings(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, "failed to get standings", err)
		}
		return c.JSON(standings)
	})
}
