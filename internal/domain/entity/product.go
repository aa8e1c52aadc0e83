package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo tal como vive en el store
// realtime bajo /products/{id}. Stock no se descuenta desde el flujo de
// órdenes (limitación heredada del sistema, ver DESIGN.md).
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image"`
	CreatedAt   int64           `json:"createdAt"` // epoch millis
	UpdatedAt   int64           `json:"updatedAt"`
}
