// Package auth implementa la frontera con el proveedor de identidad:
// registro, login, restablecimiento de contraseña y verificación de email.
// El resto del sistema solo consume el resultado como una compuerta opaca
// "¿esta sesión tiene el email verificado?".
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/commerce-admin/internal/application/dto"
	"github.com/tu-usuario/commerce-admin/internal/domain"
	"github.com/tu-usuario/commerce-admin/internal/domain/entity"
	"github.com/tu-usuario/commerce-admin/internal/domain/realtime"
	"github.com/tu-usuario/commerce-admin/pkg/jwt"
	"github.com/tu-usuario/commerce-admin/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// CollAccounts colección de cuentas del panel en el store.
const CollAccounts = "accounts"

const minPasswordLen = 6

// MailSender es el puerto hacia el servicio de correo saliente. Sus fallos
// se registran y se descartan: nunca bloquean la operación de identidad.
type MailSender interface {
	Send(ctx context.Context, email, link string) error
}

// JWTConfig configuración para la generación de tokens de sesión.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de identidad sobre la colección /accounts.
type UseCase struct {
	store     realtime.Store
	mailer    MailSender
	log       *logger.Logger
	jwtCfg    JWTConfig
	publicURL string
}

// NewUseCase construye el caso de uso.
func NewUseCase(store realtime.Store, mailer MailSender, log *logger.Logger, jwtCfg JWTConfig, publicURL string) (*UseCase, error) {
	if store == nil {
		return nil, domain.ErrStoreNotInitialized
	}
	return &UseCase{store: store, mailer: mailer, log: log, jwtCfg: jwtCfg, publicURL: publicURL}, nil
}

// Register crea la cuenta con el email sin verificar y dispara el correo de
// verificación. El fallo del correo no hace fallar el registro.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AccountResponse, error) {
	if in.Email == "" || len(in.Password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.findByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear contraseña: %w", err)
	}
	acc := entity.Account{
		ID:                uc.store.PushKey(CollAccounts),
		Email:             in.Email,
		PasswordHash:      string(hash),
		EmailVerified:     false,
		VerificationToken: uuid.New().String(),
		CreatedAt:         time.Now().UnixMilli(),
	}
	if err := uc.store.Write(ctx, CollAccounts, acc.ID, acc); err != nil {
		return nil, fmt.Errorf("crear cuenta: %w", err)
	}

	uc.sendMail(ctx, acc.Email, uc.verificationLink(acc.VerificationToken))

	return toAccountResponse(&acc), nil
}

// Login verifica credenciales y exige el email verificado antes de emitir
// el token de sesión.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	acc, err := uc.findByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !acc.EmailVerified {
		return nil, domain.ErrEmailNotVerified
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, acc.ID, acc.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	if err := uc.store.Patch(ctx, CollAccounts, acc.ID, map[string]any{"lastLogin": time.Now().UnixMilli()}); err != nil {
		// lastLogin es cosmético: no invalida el login.
		uc.log.Warn().Err(err).Str("accountId", acc.ID).Msg("actualizar lastLogin falló")
	}
	return &dto.LoginResponse{Token: token, Account: *toAccountResponse(acc)}, nil
}

// ResetPassword dispara el correo de restablecimiento para la cuenta.
func (uc *UseCase) ResetPassword(ctx context.Context, email string) error {
	acc, err := uc.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if acc == nil {
		return domain.ErrNotFound
	}
	link := fmt.Sprintf("%s/auth/reset-password?email=%s", uc.publicURL, url.QueryEscape(email))
	uc.sendMail(ctx, email, link)
	return nil
}

// SendVerification reenvía el correo de verificación de una cuenta aún sin
// verificar.
func (uc *UseCase) SendVerification(ctx context.Context, email string) error {
	acc, err := uc.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if acc == nil {
		return domain.ErrNotFound
	}
	if acc.EmailVerified {
		return nil
	}
	uc.sendMail(ctx, acc.Email, uc.verificationLink(acc.VerificationToken))
	return nil
}

// VerifyEmail canjea el token de verificación y abre la compuerta
// emailVerified de la cuenta.
func (uc *UseCase) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}
	snap, err := uc.store.GetAll(ctx, CollAccounts)
	if err != nil {
		return fmt.Errorf("leer cuentas: %w", err)
	}
	for id, raw := range snap {
		var acc entity.Account
		if err := json.Unmarshal(raw, &acc); err != nil {
			continue
		}
		if acc.VerificationToken == token {
			return uc.store.Patch(ctx, CollAccounts, id, map[string]any{
				"emailVerified":     true,
				"verificationToken": "",
			})
		}
	}
	return domain.ErrInvalidToken
}

// findByEmail recorre la colección de cuentas; (nil, nil) si no existe.
func (uc *UseCase) findByEmail(ctx context.Context, email string) (*entity.Account, error) {
	snap, err := uc.store.GetAll(ctx, CollAccounts)
	if err != nil {
		return nil, fmt.Errorf("leer cuentas: %w", err)
	}
	for id, raw := range snap {
		var acc entity.Account
		if err := json.Unmarshal(raw, &acc); err != nil {
			continue
		}
		if acc.Email == email {
			acc.ID = id
			return &acc, nil
		}
	}
	return nil, nil
}

// sendMail envía y descarta el error: el correo saliente jamás hace fallar
// la operación de identidad.
func (uc *UseCase) sendMail(ctx context.Context, email, link string) {
	if uc.mailer == nil {
		return
	}
	if err := uc.mailer.Send(ctx, email, link); err != nil {
		uc.log.Warn().Err(err).Str("email", email).Msg("envío de correo falló, se continúa")
	}
}

func (uc *UseCase) verificationLink(token string) string {
	return fmt.Sprintf("%s/api/auth/verify-email?token=%s", uc.publicURL, url.QueryEscape(token))
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:            a.ID,
		Email:         a.Email,
		EmailVerified: a.EmailVerified,
		CreatedAt:     a.CreatedAt,
	}
}
