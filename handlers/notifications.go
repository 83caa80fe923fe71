package handlers

import (
	"civiceye/middleware"
	"civiceye/services"

	"github.com/gofiber/fiber/v2"
)

type sendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

func SetupNotificationRoutes(app *fiber.App, notifications *services.NotificationService, chat *services.ChatService) {
	secured := app.Group("/s")

	secured.Get("/notifications", func(c *fiber.Ctx) error {
		list, err := notifications.List(c.Context(), userID(c))
		if err != nil {
			return fail(c, "failed to list notifications", err)
		}
		unread, err := notifications.UnreadCount(c.Context(), userID(c))
		if err != nil {
			return fail(c, "failed to count notifications", err)
		}
		return c.JSON(fiber.Map{
			"notifications": list,
			"unread":        unread,
		})
	})

	secured.Get("/notifications/stream", notifications.StreamNotificationsSSE)

	secured.Post("/notifications/read-all", func(c *fiber.Ctx) error {
		if err := notifications.MarkAllRead(c.Context(), userID(c)); err != nil {
			return fail(c, "failed to mark notifications read", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	secured.Post("/notifications/:id/read", func(c *fiber.Ctx) error {
		if err := notifications.MarkRead(c.Context(), userID(c), c.Params("id")); err != nil {
			return fail(c, "failed to mark notification read", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	secured.Delete("/notifications/:id", func(c *fiber.Ctx) error {
		if err := notifications.Delete(c.Context(), userID(c), c.Params("id")); err != nil {
			return fail(c, "failed to delete notification", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	secured.Delete("/notifications", func(c *fiber.Ctx) error {
		if err := notifications.Clear(c.Context(), userID(c)); err != nil {
			return fail(c, "failed to clear notifications", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	secured.Get("/preferences", func(c *fiber.Ctx) error {
		prefs, err := notifications.Preferences(c.Context(), userID(c))
		if err != nil {
			return fail(c, "failed to load preferences", err)
		}
		return c.JSON(prefs)
	})

	secured.Put("/preferences", func(c *fiber.Ctx) error {
		var patch services.PreferencesPatch
		if err := c.BodyParser(&patch); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		prefs, err := notifications.UpdatePreferences(c.Context(), userID(c), patch)
		if err != nil {
			return fail(c, "failed to update preferences", err)
		}
		return c.JSON(prefs)
	})

	secured.Get("/settings/export", func(c *fiber.Ctx) error {
		file, err := notifications.ExportSettings(c.Context(), userID(c))
		if err != nil {
			return fail(c, "failed to export settings", err)
		}
		c.Set(fiber.HeaderContentType, file.ContentType)
		c.Attachment(file.Filename)
		return c.Send(file.Content)
	})

	secured.Post("/settings/import", func(c *fiber.Ctx) error {
		prefs, err := notifications.ImportSettings(c.Context(), userID(c), c.Body())
		if err != nil {
			return fail(c, "failed to import settings", err)
		}
		return c.JSON(prefs)
	})

	secured.Get("/conversations", func(c *fiber.Ctx) error {
		list, err := chat.ListConversations(c.Context(), userID(c))
		if err != nil {
			return fail(c, "failed to list conversations", err)
		}
		return c.JSON(list)
	})

	secured.Post("/conversations", func(c *fiber.Ctx) error {
		var req services.CreateConversationInput
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		if err := middleware.ValidateStruct(req); err != nil {
			return badRequest(c, "participants required", err)
		}
		conv, err := chat.CreateConversation(c.Context(), userID(c), req)
		if err != nil {
			return fail(c, "failed to create conversation", err)
		}
		return c.Status(fiber.StatusCreated).JSON(conv)
	})

	secured.Get("/conversations/:id/messages", func(c *fiber.Ctx) error {
		msgs, err := chat.Messages(c.Context(), userID(c), c.Params("id"))
		if err != nil {
			return fail(c, "failed to load messages", err)
		}
		return c.JSON(msgs)
	})

	secured.Post("/conversations/:id/messages", func(c *fiber.Ctx) error {
		var req sendMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON", err)
		}
		msg, err := chat.SendMessage(c.Context(), userID(c), c.Params("id"), req.Message)
		if err != nil {
			return fail(c, "failed to send message", err)
		}
		return c.Status(fiber.StatusCreated).JSON(msg)
	})

	secured.Post("/conversations/:id/read", func(c *fiber.Ctx) error {
		if err := chat.MarkConversationRead(c.Context(), userID(c), c.Params("id")); err != nil {
			return fail(c, "failed to mark conversation read", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
