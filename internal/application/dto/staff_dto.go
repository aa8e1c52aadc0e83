package dto

// StaffForm datos del formulario de personal.
type StaffForm struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"` // admin | manager | staff | support
	Department  string   `json:"department"`
	Status      string   `json:"status"` // active | inactive
	Permissions []string `json:"permissions"`
	Avatar      string   `json:"avatar,omitempty"`
	Phone       string   `json:"phone,omitempty"`
}
