package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SSEPollInterval is how often the stream checks for new notifications.
var SSEPollInterval = 2 * time.Second

// StreamNotificationsSSE streams new notifications for the authenticated user.
func (s *NotificationService) StreamNotificationsSSE(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx := c.Context()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(SSEPollInterval)
		defer ticker.Stop()

		// Only notifications newer than the stream start are sent.
		var cursor int64
		if notes, err := s.Repo.Notifications(ctx, userID); err == nil && len(notes) > 0 {
			cursor = notes[0].Timestamp
		} else if err != nil {
			s.Log.Warn("sse_init_failed", zap.String("user_id", userID), zap.Error(err))
		}

		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				notes, err := s.Repo.Notifications(ctx, userID)
				if err != nil {
					s.Log.Warn("sse_query_failed", zap.String("user_id", userID), zap.Error(err))
					continue
				}

				// Stored newest first; send oldest first.
				var fresh int
				for fresh < len(notes) && notes[fresh].Timestamp > cursor {
					fresh++
				}
				if fresh == 0 {
					w.WriteString(":\n\n")
					if err := w.Flush(); err != nil {
						return
					}
					continue
				}
				cursor = notes[0].Timestamp
				for i := fresh - 1; i >= 0; i-- {
					payload, _ := json.Marshal(notes[i])
					fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload)
				}

				if err := w.Flush(); err != nil {
					// stream closed by the client
					return
				}

			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}
