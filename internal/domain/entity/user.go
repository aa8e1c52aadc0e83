package entity

import "github.com/shopspring/decimal"

// Estados posibles de un cliente.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBlocked  = "blocked"
)

// User representa un cliente de la tienda bajo /users/{id}.
//
// Orders y TotalSpent son contadores desnormalizados: cachean agregados
// derivados de la colección /orders y se mantienen por parches imperativos
// desde el provider de órdenes, no se recalculan ni se verifican en lectura.
type User struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Status     string          `json:"status"` // active | inactive | blocked
	Avatar     string          `json:"avatar,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Address    string          `json:"address,omitempty"`
	CreatedAt  int64           `json:"createdAt"` // epoch millis
	LastLogin  int64           `json:"lastLogin,omitempty"`
	Orders     int             `json:"orders"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}
