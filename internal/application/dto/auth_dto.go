package dto

// RegisterRequest alta de una cuenta del panel.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token de sesión más la cuenta.
type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

// AccountResponse vista pública de una cuenta (sin hash ni token de
// verificación).
type AccountResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	CreatedAt     int64  `json:"createdAt"`
}

// ResetPasswordRequest solicitud de correo de restablecimiento.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// SendVerificationRequest reenvío del correo de verificación.
type SendVerificationRequest struct {
	Email string `json:"email"`
}
