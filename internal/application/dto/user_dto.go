package dto

// UserForm datos del formulario de cliente. Los contadores orders/totalSpent
// no se aceptan desde el formulario: los inicializa el alta y los mantiene
// el provider de órdenes.
type UserForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Status  string `json:"status"` // active | inactive | blocked
	Avatar  string `json:"avatar,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}
