package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/commerce-admin/internal/application/dto"
	"github.com/tu-usuario/commerce-admin/internal/application/provider"
	"github.com/tu-usuario/commerce-admin/internal/infrastructure/pdf"
)

// OrderHandler maneja las peticiones HTTP para órdenes (protegido).
type OrderHandler struct {
	orders  *provider.Orders
	invoice *pdf.OrderInvoiceGenerator
}

// NewOrderHandler construye el handler.
func NewOrderHandler(orders *provider.Orders, invoice *pdf.OrderInvoiceGenerator) *OrderHandler {
	return &OrderHandler{orders: orders, invoice: invoice}
}

// List devuelve las órdenes ordenadas por createdAt descendente.
// GET /api/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	if h.orders.Loading() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "LOADING", Message: "la colección aún está cargando"})
	}
	return c.JSON(h.orders.List())
}

// GetByID busca en la lista en memoria.
// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	ord, ok := h.orders.GetByID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	}
	return c.JSON(ord)
}

// Create da de alta la orden e incrementa los contadores del cliente.
// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.OrderForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.UserID == "" || len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "userId e items son requeridos"})
	}
	id, err := h.orders.Add(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IDResponse{ID: id})
}

// Update parchea solo los campos enviados más updatedAt. Un cambio de
// estado nunca ajusta los contadores del cliente.
// PUT /api/orders/:id
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.OrderUpdate
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.orders.Update(c.Context(), c.Params("id"), in); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete revierte los contadores del cliente y elimina la orden.
// DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.orders.Delete(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// InvoicePDF genera el comprobante imprimible de la orden.
// GET /api/orders/:id/pdf
func (h *OrderHandler) InvoicePDF(c *fiber.Ctx) error {
	ord, ok := h.orders.GetByID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	}
	doc, err := h.invoice.Generate(&ord)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=orden-%s.pdf", ord.ID))
	return c.Send(doc)
}
