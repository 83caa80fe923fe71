package handlers

import (
	"civiceye/middleware"
	"civiceye/models"
	"civiceye/repository"
	"civiceye/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminServices groups what the moderation routes need.
type AdminServices struct {
	Analytics    *services.AnalyticsService
	Exporter     *services.Exporter
	Users        *services.UserService
	Publications *services.PublicationService
	Comments     *services.CommentService
}

type exportRequest struct {
	Format  services.ExportFormat `json:"format" validate:"required"`
	Report  models.ReportType     `json:"report"`
	Filters models.ReportFilters  `json:"filters"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func SetupAdminRoutes(app *fiber.App, svc AdminServices, users repository.UserRepository, log *zap.Logger) {
	admin := app.Group("/s/admin", middleware.RequireAdmin(users, log))

	admin.Get("/analytics", func(c *fiber.Ctx) error {
		data, err := svc.Analytics.Snapshot(c.Context())
		if err != nil {
			return fail(c, "failed to compute analytics", err)
		}
		return c.JSON(data)
	})

	admin.Post("/analytics/refresh", func(c *fiber.Ctx) error {
		data, err := svc.Analytics.Refresh(c.Context())
		if err != nil {
			return fail(c, "failed to refresh analytics", err)
		}
		return c.JSON(data)
	})

	admin.Get("/reports/:type", func(c *fiber.Ctx) error {
		var filters models.ReportFilters
		if err := c.QueryParser(&filters); err != nil {
			return badRequest(c, "invalid filters", err)
		}
		report, err := svc.Analytics.GenerateReport(c.Context(), models.ReportType(c.Params("type")), filters)
		if err != nil {
			return fail(c, "failed to generate report", err)
		}
		return c.JSON(report)
	})

	admin.Get("/predictions/:type", func(c *fiber.Ctx) error {
		p, err := svc.Analytics.Predictions(c.Context(), models.PredictionType(c.Params("type")))
		if err != nil {
			return fail(c, "failed to predict", err)
		}
		return c.JSON(p)
	})

	// Export renders the snapshot, or one report of it, and stores the file.
	admin.Post("/export", func(c *fiber.Ctx) error {
		var req exportRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		if err := middleware.ValidateStruct(req); err != nil {
			return badRequest(c, "format required", err)
		}
		var data any
		var err error
		if req.Report != "" {
			data, err = svc.Analytics.GenerateReport(c.Context(), req.Report, req.Filters)
		} else {
			data, err = svc.Analytics.Snapshot(c.Context())
		}
		if err != nil {
			return fail(c, "failed to compute analytics", err)
		}
		file, err := svc.Exporter.Export(c.Context(), req.Format, data)
		if err != nil {
			return fail(c, "export failed", err)
		}
		if file.Location != "" {
			c.Set("X-Export-Location", file.Location)
		}
		c.Set(fiber.HeaderContentType, file.ContentType)
		c.Attachment(file.Filename)
		return c.Send(file.Content)
	})

	admin.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := svc.Analytics.AdminStats(c.Context())
		if err != nil {
			return fail(c, "failed to compute stats", err)
		}
		return c.JSON(stats)
	})

	admin.Delete("/users/:id", func(c *fiber.Ctx) error {
		if err := svc.Users.DeleteUser(c.Context(), c.Params("id")); err != nil {
			return fail(c, "failed to delete user", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	admin.Post("/users/:id/reset-reputation", func(c *fiber.Ctx) error {
		u, err := svc.Users.ResetReputation(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, "failed to reset reputation", err)
		}
		return c.JSON(u)
	})

	admin.Put("/publications/:id/status", func(c *fiber.Ctx) error {
		var req statusRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		if err := middleware.ValidateStruct(req); err != nil {
			return badRequest(c, "status required", err)
		}
		p, err := svc.Publications.SetStatus(c.Context(), c.Params("id"), req.Status)
		if err != nil {
			return fail(c, "failed to set status", err)
		}
		return c.JSON(p)
	})

	admin.Delete("/publications/:id", func(c *fiber.Ctx) error {
		if err := svc.Publications.Delete(c.Context(), userID(c), isAdmin(c), c.Params("id")); err != nil {
			return fail(c, "failed to delete publication", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	admin.Delete("/comments/:id", func(c *fiber.Ctx) error {
		removed, err := svc.Comments.Delete(c.Context(), userID(c), isAdmin(c), c.Params("id"))
		if err != nil {
			return fail(c, "failed to delete comment", err)
		}
		return c.JSON(fiber.Map{"removed": removed})
	})
}
