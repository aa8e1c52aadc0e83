package auth_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/commerce-admin/internal/application/auth"
	"github.com/tu-usuario/commerce-admin/internal/application/dto"
	"github.com/tu-usuario/commerce-admin/internal/domain"
	"github.com/tu-usuario/commerce-admin/internal/infrastructure/memstore"
	pkgjwt "github.com/tu-usuario/commerce-admin/pkg/jwt"
	"github.com/tu-usuario/commerce-admin/pkg/logger"
)

const (
	testSecret    = "test-secret-key-for-unit-tests"
	testIssuer    = "commerce-admin-test"
	testPublicURL = "http://panel.test.local"
	testEmail     = "admin@test.local"
	testPassword  = "secreto123"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// mailRecorder captura los correos salientes. failWith simula el servicio
// caído: los casos de uso deben tragarse ese error.
type mailRecorder struct {
	mu       sync.Mutex
	sent     []sentMail
	failWith error
}

type sentMail struct {
	Email string
	Link  string
}

func (m *mailRecorder) Send(_ context.Context, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, sentMail{Email: email, Link: link})
	return nil
}

func (m *mailRecorder) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "debe haberse enviado al menos un correo")
	return m.sent[len(m.sent)-1]
}

func (m *mailRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newTestUseCase(t *testing.T, mailer auth.MailSender) (*auth.UseCase, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	t.Cleanup(func() { s.Close() })
	uc, err := auth.NewUseCase(s, mailer, logger.Nop(), auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     testIssuer,
	}, testPublicURL)
	require.NoError(t, err)
	return uc, s
}

// tokenFromLink extrae el token de verificación del enlace enviado.
func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token, "el enlace de verificación debe llevar el token: %s", link)
	return token
}

func register(t *testing.T, uc *auth.UseCase) *dto.AccountResponse {
	t.Helper()
	acc, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:    testEmail,
		Password: testPassword,
	})
	require.NoError(t, err)
	return acc
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreaCuentaSinVerificarYEnviaCorreo(t *testing.T) {
	mailer := &mailRecorder{}
	uc, _ := newTestUseCase(t, mailer)

	acc := register(t, uc)

	assert.Equal(t, testEmail, acc.Email)
	assert.False(t, acc.EmailVerified, "la cuenta nace sin verificar")
	assert.NotEmpty(t, acc.ID)

	mail := mailer.last(t)
	assert.Equal(t, testEmail, mail.Email)
	assert.Contains(t, mail.Link, testPublicURL+"/api/auth/verify-email?token=")
}

func TestRegister_EmailDuplicado_Error(t *testing.T) {
	uc, _ := newTestUseCase(t, &mailRecorder{})
	register(t, uc)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:    testEmail,
		Password: "otraclave9",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_PasswordCorta_Error(t *testing.T) {
	uc, _ := newTestUseCase(t, &mailRecorder{})

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:    testEmail,
		Password: "corta",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El correo es dispara-y-olvida: si el servicio falla, el registro se
// completa igual.
func TestRegister_FalloDelCorreo_NoPropaga(t *testing.T) {
	mailer := &mailRecorder{failWith: errors.New("mail service caído")}
	uc, _ := newTestUseCase(t, mailer)

	acc, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:    testEmail,
		Password: testPassword,
	})
	require.NoError(t, err, "el fallo del correo jamás hace fallar el registro")
	assert.NotEmpty(t, acc.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login — compuerta de email verificado
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_SinVerificar_Bloqueado(t *testing.T) {
	uc, _ := newTestUseCase(t, &mailRecorder{})
	register(t, uc)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    testEmail,
		Password: testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrEmailNotVerified,
		"credenciales correctas pero email sin verificar: la compuerta bloquea")
}

func TestLogin_TrasVerificar_EmiteToken(t *testing.T) {
	mailer := &mailRecorder{}
	uc, _ := newTestUseCase(t, mailer)
	register(t, uc)

	token := tokenFromLink(t, mailer.last(t).Link)
	require.NoError(t, uc.VerifyEmail(context.Background(), token))

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    testEmail,
		Password: testPassword,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.True(t, resp.Account.EmailVerified)

	accountID, email, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err, "el token emitido debe ser verificable con el mismo secret")
	assert.Equal(t, resp.Account.ID, accountID)
	assert.Equal(t, testEmail, email)
}

func TestLogin_PasswordIncorrecta_CredencialesInvalidas(t *testing.T) {
	uc, _ := newTestUseCase(t, &mailRecorder{})
	register(t, uc)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    testEmail,
		Password: "equivocada99",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_CuentaInexistente_CredencialesInvalidas(t *testing.T) {
	uc, _ := newTestUseCase(t, &mailRecorder{})

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "nadie@test.local",
		Password: testPassword,
	})
	// Mismo error que la contraseña incorrecta: no se filtra si la cuenta existe.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

// ──────────────────────────────────────────────────────────────────────────────
// Verificación de email
// ──────────────────────────────────────────────────────────────────────────────

func TestVerifyEmail_TokenInvalido_Error(t *testing.T) {
	uc, _ := newTestUseCase(t, &mailRecorder{})
	register(t, uc)

	assert.ErrorIs(t, uc.VerifyEmail(context.Background(), "token-inventado"), domain.ErrInvalidToken)
	assert.ErrorIs(t, uc.VerifyEmail(context.Background(), ""), domain.ErrInvalidToken)
}

// El token es de un solo uso: la verificación lo limpia.
func TestVerifyEmail_TokenDeUnSoloUso(t *testing.T) {
	mailer := &mailRecorder{}
	uc, _ := newTestUseCase(t, mailer)
	register(t, uc)

	token := tokenFromLink(t, mailer.last(t).Link)
	require.NoError(t, uc.VerifyEmail(context.Background(), token))
	assert.ErrorIs(t, uc.VerifyEmail(context.Background(), token), domain.ErrInvalidToken,
		"canjear dos veces el mismo token debe fallar")
}

func TestSendVerification_CuentaYaVerificada_NoReenvia(t *testing.T) {
	mailer := &mailRecorder{}
	uc, _ := newTestUseCase(t, mailer)
	register(t, uc)

	token := tokenFromLink(t, mailer.last(t).Link)
	require.NoError(t, uc.VerifyEmail(context.Background(), token))

	before := mailer.count()
	require.NoError(t, uc.SendVerification(context.Background(), testEmail))
	assert.Equal(t, before, mailer.count(), "una cuenta verificada no recibe otro correo de verificación")
}

func TestSendVerification_CuentaInexistente_NotFound(t *testing.T) {
	uc, _ := newTestUseCase(t, &mailRecorder{})
	assert.ErrorIs(t, uc.SendVerification(context.Background(), "nadie@test.local"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Restablecimiento de contraseña
// ──────────────────────────────────────────────────────────────────────────────

func TestResetPassword_EnviaEnlaceConElEmail(t *testing.T) {
	mailer := &mailRecorder{}
	uc, _ := newTestUseCase(t, mailer)
	register(t, uc)

	require.NoError(t, uc.ResetPassword(context.Background(), testEmail))

	mail := mailer.last(t)
	assert.Equal(t, testEmail, mail.Email)
	assert.Contains(t, mail.Link, testPublicURL+"/auth/reset-password?email=")
}

func TestResetPassword_CuentaInexistente_NotFound(t *testing.T) {
	uc, _ := newTestUseCase(t, &mailRecorder{})
	assert.ErrorIs(t, uc.ResetPassword(context.Background(), "nadie@test.local"), domain.ErrNotFound)
}
