package entity

import "github.com/shopspring/decimal"

// Estados de una orden. Enumeración libre: cualquier transición es válida
// vía update, no existe tabla de transiciones (ver DESIGN.md).
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Estados de pago.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// OrderItem es una línea de la orden con el precio unitario congelado al
// momento de la compra.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Order representa una orden bajo /orders/{id}.
//
// UserName y UserEmail son una copia desnormalizada de la identidad del
// cliente capturada al crear la orden; nunca se refrescan aunque el registro
// del usuario cambie después.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	UserName        string          `json:"userName"`
	UserEmail       string          `json:"userEmail"`
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	ShippingAddress string          `json:"shippingAddress"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       int64           `json:"createdAt"` // epoch millis
	UpdatedAt       int64           `json:"updatedAt"`
}
