package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/wardrobe/pkg/ctx"
)

// Health is the unauthenticated liveness probe.
func Health(c *ctx.Context) {
	c.JSON(http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
