package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/tu-usuario/commerce-admin/internal/application/analytics"
	"github.com/tu-usuario/commerce-admin/internal/application/auth"
	"github.com/tu-usuario/commerce-admin/internal/application/provider"
	"github.com/tu-usuario/commerce-admin/internal/domain/realtime"
	"github.com/tu-usuario/commerce-admin/internal/infrastructure/mail"
	"github.com/tu-usuario/commerce-admin/internal/infrastructure/memstore"
	infrapdf "github.com/tu-usuario/commerce-admin/internal/infrastructure/pdf"
	"github.com/tu-usuario/commerce-admin/internal/infrastructure/postgres"
	"github.com/tu-usuario/commerce-admin/internal/infrastructure/sqlitestore"
	httpRouter "github.com/tu-usuario/commerce-admin/internal/interfaces/http"
	"github.com/tu-usuario/commerce-admin/pkg/config"
	"github.com/tu-usuario/commerce-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Store de documentos realtime según driver configurado.
	var store realtime.Store
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store = memstore.New()
	case config.StoreDriverSQLite:
		s, err := sqlitestore.Open(cfg.Store.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir store SQLite")
		}
		store = s
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		s, err := postgres.NewStore(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar store PostgreSQL")
		}
		store = s
	}
	defer store.Close()

	// Providers de colecciones: espejos en memoria vía suscripción.
	products, err := provider.NewProducts(store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("provider de productos")
	}
	users, err := provider.NewUsers(store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("provider de usuarios")
	}
	staff, err := provider.NewStaff(store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("provider de staff")
	}
	orders, err := provider.NewOrders(store, log, provider.OrdersOptions{
		LegacyCounters: cfg.Counter.LegacyMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("provider de órdenes")
	}

	dashboardUC := appanalytics.NewDashboardUseCase(products, orders, users)

	mailer := mail.NewSender(cfg.Mail.EndpointURL, log)
	authUC, err := auth.NewUseCase(store, mailer, log, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Mail.PublicURL)
	if err != nil {
		log.Fatal().Err(err).Msg("caso de uso de auth")
	}

	invoicePDF := infrapdf.NewOrderInvoiceGenerator(cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Commerce Admin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Products:    products,
		Users:       users,
		Staff:       staff,
		Orders:      orders,
		DashboardUC: dashboardUC,
		AuthUC:      authUC,
		InvoicePDF:  invoicePDF,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Cierra providers antes del store para drenar suscripciones.
	orders.Close()
	staff.Close()
	users.Close()
	products.Close()

	log.Info().Msg("aplicación detenida")
}
