package handlers

import (
	"civiceye/models"
	"civiceye/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGamificationRoutes(app *fiber.App, gamification *services.GamificationService) {
	app.Get("/gamification/badges", func(c *fiber.Ctx) error {
		return c.JSON(gamification.Badges())
	})

	app.Get("/gamification/leaderboard/:type", func(c *fiber.Ctx) error {
		entries, err := gamification.Leaderboard(c.Context(), models.LeaderboardType(c.Params("type")))
		if err != nil {
			return fail(c, "failed to build leaderboard", err)
		}
		return c.JSON(entries)
	})

	secured := app.Group("/s/gamification")

	secured.Get("/stats", func(c *fiber.Ctx) error {
		profile, err := gamification.Profile(c.Context(), userID(c))
		if err != nil {
			return fail(c, "failed to load stats", err)
		}
		return c.JSON(profile)
	})

	secured.Post("/daily-login", func(c *fiber.Ctx) error {
		res, err := gamification.ApplyAction(c.Context(), userID(c), models.ActionDailyLogin)
		if err != nil {
			return fail(c, "daily login failed", err)
		}
		return c.JSON(res)
	})

	secured.Get("/missions", func(c *fiber.Ctx) error {
		missions, err := gamification.GetMissions(c.Context(), userID(c))
		if err != nil {
			return fail(c, "failed to get missions", err)
		}
		return c.JSON(missions)
	})

	secured.Post("/missions/:id/claim", func(c *fiber.Ctx) error {
		res, err := gamification.ClaimMission(c.Context(), userID(c), c.Params("id"))
		if err != nil {
			return fail(c, "mission claim failed", err)
		}
		return c.JSON(res)
	})
}
