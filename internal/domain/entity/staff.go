package entity

// Roles del personal administrativo.
const (
	StaffRoleAdmin   = "admin"
	StaffRoleManager = "manager"
	StaffRoleStaff   = "staff"
	StaffRoleSupport = "support"
)

// StaffMember representa un miembro del equipo bajo /staff/{id}.
// Permissions son etiquetas de capacidad puramente descriptivas: ningún
// componente del backend las evalúa para autorizar operaciones.
type StaffMember struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"` // admin | manager | staff | support
	Department  string   `json:"department"`
	Status      string   `json:"status"` // active | inactive
	Permissions []string `json:"permissions"`
	Avatar      string   `json:"avatar,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	CreatedAt   int64    `json:"createdAt"` // epoch millis
	LastLogin   int64    `json:"lastLogin,omitempty"`
	UpdatedAt   int64    `json:"updatedAt,omitempty"`
}
