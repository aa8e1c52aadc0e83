package entity

// Account es una cuenta de acceso al panel, bajo /accounts/{id}.
// EmailVerified es la compuerta booleana opaca que bloquea el login hasta
// completar la verificación por correo.
type Account struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	PasswordHash      string `json:"passwordHash"`
	EmailVerified     bool   `json:"emailVerified"`
	VerificationToken string `json:"verificationToken,omitempty"`
	CreatedAt         int64  `json:"createdAt"` // epoch millis
	LastLogin         int64  `json:"lastLogin,omitempty"`
}
