// Package mail implementa el cliente del servicio de correo saliente. El
// envío es una petición fire-and-forget: el llamador decide ignorar el
// error, nunca debe bloquear ni hacer fallar la operación de identidad que
// lo disparó.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tu-usuario/commerce-admin/pkg/logger"
)

const requestTimeout = 5 * time.Second

// Sender envía correos de verificación y restablecimiento a través de un
// endpoint HTTP externo. Con endpoint vacío solo registra el envío en el
// log (modo desarrollo).
type Sender struct {
	endpoint string
	client   *http.Client
	log      *logger.Logger
}

// NewSender construye el cliente.
func NewSender(endpoint string, log *logger.Logger) *Sender {
	return &Sender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: requestTimeout},
		log:      log,
	}
}

type payload struct {
	Email            string `json:"email"`
	VerificationLink string `json:"verificationLink"`
}

// Send entrega {email, verificationLink} al endpoint configurado. Una
// respuesta fuera de 2xx cuenta como fallo.
func (s *Sender) Send(ctx context.Context, email, link string) error {
	if s.endpoint == "" {
		s.log.Info().Str("email", email).Str("link", link).Msg("correo simulado (sin endpoint configurado)")
		return nil
	}

	body, err := json.Marshal(payload{Email: email, VerificationLink: link})
	if err != nil {
		return fmt.Errorf("mail: serializar payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mail: construir petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail: enviar: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail: el endpoint respondió %d", resp.StatusCode)
	}
	return nil
}
