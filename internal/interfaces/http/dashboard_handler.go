package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/commerce-admin/internal/application/analytics"
	"github.com/tu-usuario/commerce-admin/internal/application/dto"
	"github.com/tu-usuario/commerce-admin/internal/domain"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats devuelve el snapshot de estadísticas del panel.
// GET /api/dashboard/stats
//
// Los agregados se recomputan completos sobre las listas en memoria; si
// alguna colección sigue cargando responde 503.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats()
	if err != nil {
		if errors.Is(err, domain.ErrNotReady) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "LOADING", Message: "las colecciones aún están cargando",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}
	return c.JSON(stats)
}
