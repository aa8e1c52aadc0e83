package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Drivers disponibles para el store realtime.
const (
	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde
// env y opcionalmente archivo .env).
type Config struct {
	App     AppConfig
	Store   StoreConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Mail    MailConfig
	Counter CounterConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// StoreConfig selecciona e inicializa el backend del store de documentos.
type StoreConfig struct {
	Driver      string // memory | sqlite | postgres
	SQLitePath  string // ruta del archivo .db (driver sqlite)
	DatabaseURL string // DSN de PostgreSQL (driver postgres)
}

// JWTConfig configuración de los tokens de sesión.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MailConfig endpoint del servicio de correo saliente. Si EndpointURL está
// vacío, los envíos se registran en el log y se descartan.
type MailConfig struct {
	EndpointURL string
	PublicURL   string // base para construir los enlaces de verificación
}

// CounterConfig controla el modo del actualizador de contadores del usuario.
// LegacyMode reproduce el patrón histórico leer-luego-parchear, que puede
// perder incrementos bajo creaciones concurrentes de órdenes del mismo
// usuario; desactivado usa la primitiva atómica del store.
type CounterConfig struct {
	LegacyMode bool
}

// Load lee la configuración desde variables de entorno y opcionalmente desde
// un archivo .env en el directorio de trabajo. Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "commerce-admin"),
		},
		Store: StoreConfig{
			Driver:      getString(v, "STORE_DRIVER", StoreDriverMemory),
			SQLitePath:  getString(v, "STORE_SQLITE_PATH", "commerce-admin.db"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "commerce-admin"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Mail: MailConfig{
			EndpointURL: getString(v, "MAIL_ENDPOINT_URL", ""),
			PublicURL:   getString(v, "APP_PUBLIC_URL", "http://localhost:8080"),
		},
		Counter: CounterConfig{
			LegacyMode: getBool(v, "COUNTER_LEGACY_MODE", false),
		},
	}

	switch cfg.Store.Driver {
	case StoreDriverMemory, StoreDriverSQLite, StoreDriverPostgres:
	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
	}
	if cfg.Store.Driver == StoreDriverPostgres && cfg.Store.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL es requerido con STORE_DRIVER=postgres")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
