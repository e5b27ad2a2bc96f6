package handlers

import (
	"context"
	"time"

	"app/database"

	"github.com/gofiber/fiber/v2"
)

// HandleHealthCheck reports service and database health.
// GET /health
func HandleHealthCheck(c *fiber.Ctx) error {
	status := "healthy"
	if db := database.GetDB(); db != nil {
		if err := db.Ping(context.Background()); err != nil {
			status = "degraded"
		}
	}

	return c.JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
