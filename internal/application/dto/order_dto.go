package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/commerce-admin/internal/domain/entity"
)

// OrderForm datos del formulario de orden. UserName/UserEmail llegan ya
// resueltos desde el formulario y quedan congelados en la orden como copia
// desnormalizada.
type OrderForm struct {
	UserID          string             `json:"userId"`
	UserName        string             `json:"userName"`
	UserEmail       string             `json:"userEmail"`
	Items           []entity.OrderItem `json:"items"`
	Total           decimal.Decimal    `json:"total"`
	Status          string             `json:"status"`
	PaymentMethod   string             `json:"paymentMethod"`
	PaymentStatus   string             `json:"paymentStatus"`
	ShippingAddress string             `json:"shippingAddress"`
	TrackingNumber  string             `json:"trackingNumber,omitempty"`
	Notes           string             `json:"notes,omitempty"`
}

// OrderUpdate campos parciales de una orden. Solo los punteros no nulos se
// parchean; una actualización de estado o de campos nunca toca los
// contadores del usuario.
type OrderUpdate struct {
	Status          *string `json:"status,omitempty"`
	PaymentMethod   *string `json:"paymentMethod,omitempty"`
	PaymentStatus   *string `json:"paymentStatus,omitempty"`
	ShippingAddress *string `json:"shippingAddress,omitempty"`
	TrackingNumber  *string `json:"trackingNumber,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// Fields construye el mapa de campos a parchear en el store.
func (u OrderUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	if u.PaymentMethod != nil {
		fields["paymentMethod"] = *u.PaymentMethod
	}
	if u.PaymentStatus != nil {
		fields["paymentStatus"] = *u.PaymentStatus
	}
	if u.ShippingAddress != nil {
		fields["shippingAddress"] = *u.ShippingAddress
	}
	if u.TrackingNumber != nil {
		fields["trackingNumber"] = *u.TrackingNumber
	}
	if u.Notes != nil {
		fields["notes"] = *u.Notes
	}
	return fields
}
