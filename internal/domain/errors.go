package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrStoreNotInitialized indica un fallo de configuración del store en el
	// arranque de la sesión: toda operación posterior debe fallar rápido.
	ErrStoreNotInitialized = errors.New("store realtime no inicializado")

	ErrNotFound           = errors.New("recurso no encontrado")
	ErrNotReady           = errors.New("las colecciones aún están cargando")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrEmailNotVerified   = errors.New("el email no está verificado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInvalidToken       = errors.New("token de verificación inválido")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
)
