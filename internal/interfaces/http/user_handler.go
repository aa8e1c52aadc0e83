package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/commerce-admin/internal/application/dto"
	"github.com/tu-usuario/commerce-admin/internal/application/provider"
)

// UserHandler maneja las peticiones HTTP para clientes (protegido).
type UserHandler struct {
	users *provider.Users
}

// NewUserHandler construye el handler.
func NewUserHandler(users *provider.Users) *UserHandler {
	return &UserHandler{users: users}
}

// List devuelve la lista en memoria del provider.
// GET /api/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	if h.users.Loading() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "LOADING", Message: "la colección aún está cargando"})
	}
	return c.JSON(h.users.List())
}

// GetByID busca en la lista en memoria.
// GET /api/users/:id
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	usr, ok := h.users.GetByID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
	}
	return c.JSON(usr)
}

// Create da de alta un cliente con los contadores en cero.
// POST /api/users
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.UserForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y email son requeridos"})
	}
	id, err := h.users.Add(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IDResponse{ID: id})
}

// Update parchea los campos del formulario sin tocar los contadores.
// PUT /api/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UserForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.users.Update(c.Context(), c.Params("id"), in); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete elimina el cliente.
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
