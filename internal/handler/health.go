package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minhngvn/scholarship-hub/internal/catalog"
)

// HealthHandler reports liveness and the size of the loaded catalog.
type HealthHandler struct {
	Catalog *catalog.Catalog
}

func NewHealthHandler(cat *catalog.Catalog) *HealthHandler {
	return &HealthHandler{Catalog: cat}
}

func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":       "ok",
		"scholarships": h.Catalog.Len(),
	})
}
