package handlers

import (
	"context"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/database"
	"github.com/gofiber/fiber/v2"
)

type SystemHandler struct {
	Store database.Store
}

func NewSystemHandler(store database.Store) *SystemHandler {
	return &SystemHandler{Store: store}
}

func (h *SystemHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Hello World"})
}

// Health reports "ok" when the database answers a ping, "degraded" otherwise.
// Lookups keep serving empty results while degraded, so the status stays 200.
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	databaseStatus := "up"
	if h.Store == nil || h.Store.Ping(ctx) != nil {
		status = "degraded"
		databaseStatus = "down"
	}

	return c.JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"database":  databaseStatus,
	})
}
