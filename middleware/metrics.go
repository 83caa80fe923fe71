package middleware

import (
	"strconv"
	"time"

	"civiceye/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger records request counts and latency and logs one line per
// request.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// Let fiber's error handler set the status before it is read.
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		path := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			path = r.Path
		}
		status := c.Response().StatusCode()
		duration := time.Since(start).Seconds()

		utils.ReqCount.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		utils.ReqDuration.WithLabelValues(c.Method(), path).Observe(duration)

		log.Info("http_request",
			zap.String("method", c.Method()),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Float64("duration", duration),
			zap.String("client_ip", c.IP()),
		)
		return nil
	}
}
