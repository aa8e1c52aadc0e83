package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/commerce-admin/internal/application/dto"
	"github.com/tu-usuario/commerce-admin/internal/application/provider"
)

// ProductHandler maneja las peticiones HTTP para productos (protegido).
type ProductHandler struct {
	products *provider.Products
}

// NewProductHandler construye el handler.
func NewProductHandler(products *provider.Products) *ProductHandler {
	return &ProductHandler{products: products}
}

// List devuelve la lista en memoria del provider.
// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	if h.products.Loading() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "LOADING", Message: "la colección aún está cargando"})
	}
	return c.JSON(h.products.List())
}

// GetByID busca en la lista en memoria.
// GET /api/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	prod, ok := h.products.GetByID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(prod)
}

// Create da de alta un producto. El registro aparece en la lista cuando la
// suscripción entrega el siguiente snapshot, no antes.
// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	id, err := h.products.Add(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IDResponse{ID: id})
}

// Update parchea el formulario completo más updatedAt.
// PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.ProductForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.products.Update(c.Context(), c.Params("id"), in); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete elimina el producto.
// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.products.Delete(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
