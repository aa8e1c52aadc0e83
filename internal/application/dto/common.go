package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta genérica con un mensaje informativo.
type MessageResponse struct {
	Message string `json:"message"`
}

// IDResponse respuesta de creación: el id generado por el store.
type IDResponse struct {
	ID string `json:"id"`
}
