package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/commerce-admin/internal/application/dto"
	"github.com/tu-usuario/commerce-admin/internal/application/provider"
)

// StaffHandler maneja las peticiones HTTP para el personal (protegido).
type StaffHandler struct {
	staff *provider.Staff
}

// NewStaffHandler construye el handler.
func NewStaffHandler(staff *provider.Staff) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// List devuelve la lista en memoria del provider.
// GET /api/staff
func (h *StaffHandler) List(c *fiber.Ctx) error {
	if h.staff.Loading() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "LOADING", Message: "la colección aún está cargando"})
	}
	return c.JSON(h.staff.List())
}

// GetByID busca en la lista en memoria.
// GET /api/staff/:id
func (h *StaffHandler) GetByID(c *fiber.Ctx) error {
	m, ok := h.staff.GetByID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "miembro no encontrado"})
	}
	return c.JSON(m)
}

// Create da de alta un miembro del personal.
// POST /api/staff
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var in dto.StaffForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.Email == "" || in.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name, email y role son requeridos"})
	}
	id, err := h.staff.Add(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IDResponse{ID: id})
}

// Update parchea el formulario completo más updatedAt.
// PUT /api/staff/:id
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var in dto.StaffForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.staff.Update(c.Context(), c.Params("id"), in); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete elimina el miembro.
// DELETE /api/staff/:id
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	if err := h.staff.Delete(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
