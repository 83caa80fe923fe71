package handlers

import (
	"civiceye/middleware"
	"civiceye/models"
	"civiceye/services"

	"github.com/gofiber/fiber/v2"
)

type reactionRequest struct {
	Type models.ReactionType `json:"type" validate:"required"`
}

type editCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

func SetupPublicationRoutes(app *fiber.App, publications *services.PublicationService, comments *services.CommentService) {
	app.Get("/publications", func(c *fiber.Ctx) error {
		pubs, err := publications.List(c.Context())
		if err != nil {
			return fail(c, "failed to list publications", err)
		}
		return c.JSON(pubs)
	})

	app.Get("/publications/search", func(c *fiber.Ctx) error {
		var q services.SearchQuery
		if err := c.QueryParser(&q); err != nil {
			return badRequest(c, "invalid query", err)
		}
		pubs, err := publications.Search(c.Context(), q)
		if err != nil {
			return fail(c, "search failed", err)
		}
		return c.JSON(pubs)
	})

	app.Get("/publications/:id", func(c *fiber.Ctx) error {
		p, err := publications.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, "publication not found", err)
		}
		return c.JSON(p)
	})

	app.Get("/publications/:id/comments", func(c *fiber.Ctx) error {
		list, err := comments.List(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, "failed to list comments", err)
		}
		return c.JSON(list)
	})

	secured := app.Group("/s")

	secured.Post("/publications", func(c *fiber.Ctx) error {
		var req services.CreatePublicationInput
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		p, res, err := publications.Create(c.Context(), userID(c), req)
		if err != nil {
			return fail(c, "failed to create publication", err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"publication": p,
			"reward":      res,
		})
	})

	secured.Post("/publications/:id/view", func(c *fiber.Ctx) error {
		p, err := publications.View(c.Context(), userID(c), c.Params("id"))
		if err != nil {
			return fail(c, "failed to record view", err)
		}
		return c.JSON(p)
	})

	secured.Post("/publications/:id/recover", func(c *fiber.Ctx) error {
		p, res, err := publications.MarkRecovered(c.Context(), userID(c), c.Params("id"))
		if err != nil {
			return fail(c, "failed to mark as recovered", err)
		}
		return c.JSON(fiber.Map{
			"publication": p,
			"reward":      res,
		})
	})

	secured.Post("/publications/:id/share", func(c *fiber.Ctx) error {
		p, err := publications.Share(c.Context(), userID(c), c.Params("id"))
		if err != nil {
			return fail(c, "failed to share", err)
		}
		return c.JSON(p)
	})

	secured.Post("/publications/:id/save", func(c *fiber.Ctx) error {
		p, saved, err := publications.ToggleSave(c.Context(), userID(c), c.Params("id"))
		if err != nil {
			return fail(c, "failed to save", err)
		}
		return c.JSON(fiber.Map{"publication": p, "saved": saved})
	})

	secured.Post("/publications/:id/follow", func(c *fiber.Ctx) error {
		p, following, err := publications.ToggleFollow(c.Context(), userID(c), c.Params("id"))
		if err != nil {
			return fail(c, "failed to follow", err)
		}
		return c.JSON(fiber.Map{"publication": p, "following": following})
	})

	secured.Post("/publications/:id/reactions", func(c *fiber.Ctx) error {
		var req reactionRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		if err := middleware.ValidateStruct(req); err != nil {
			return badRequest(c, "reaction type required", err)
		}
		p, outcome, err := publications.React(c.Context(), userID(c), c.Params("id"), req.Type)
		if err != nil {
			return fail(c, "failed to react", err)
		}
		return c.JSON(fiber.Map{"publication": p, "outcome": outcome})
	})

	secured.Delete("/publications/:id", func(c *fiber.Ctx) error {
		if err := publications.Delete(c.Context(), userID(c), false, c.Params("id")); err != nil {
			return fail(c, "failed to delete publication", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	secured.Post("/publications/:id/comments", func(c *fiber.Ctx) error {
		var req services.AddCommentInput
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		comment, err := comments.Add(c.Context(), userID(c), c.Params("id"), req)
		if err != nil {
			return fail(c, "failed to add comment", err)
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	})

	secured.Put("/comments/:id", func(c *fiber.Ctx) error {
		var req editCommentRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		if err := middleware.ValidateStruct(req); err != nil {
			return badRequest(c, "content required", err)
		}
		comment, err := comments.Edit(c.Context(), userID(c), c.Params("id"), req.Content)
		if err != nil {
			return fail(c, "failed to edit comment", err)
		}
		return c.JSON(comment)
	})

	secured.Delete("/comments/:id", func(c *fiber.Ctx) error {
		removed, err := comments.Delete(c.Context(), userID(c), false, c.Params("id"))
		if err != nil {
			return fail(c, "failed to delete comment", err)
		}
		return c.JSON(fiber.Map{"removed": removed})
	})

	secured.Post("/comments/:id/reactions", func(c *fiber.Ctx) error {
		var req reactionRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		if err := middleware.ValidateStruct(req); err != nil {
			return badRequest(c, "reaction type required", err)
		}
		comment, outcome, err := comments.React(c.Context(), userID(c), c.Params("id"), req.Type)
		if err != nil {
			return fail(c, "failed to react", err)
		}
		return c.JSON(fiber.Map{"comment": comment, "outcome": outcome})
	})
}
