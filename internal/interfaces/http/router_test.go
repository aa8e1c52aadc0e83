package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/commerce-admin/internal/application/analytics"
	"github.com/tu-usuario/commerce-admin/internal/application/provider"
	"github.com/tu-usuario/commerce-admin/internal/domain/entity"
	"github.com/tu-usuario/commerce-admin/internal/infrastructure/memstore"
	apphttp "github.com/tu-usuario/commerce-admin/internal/interfaces/http"
	"github.com/tu-usuario/commerce-admin/pkg/logger"
)

// buildRouterApp monta la API completa sobre un store en memoria, sin auth
// use case ni PDF (las rutas bajo prueba no los tocan).
func buildRouterApp(t *testing.T) (*fiber.App, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	t.Cleanup(func() { s.Close() })

	log := logger.Nop()
	products, err := provider.NewProducts(s, log)
	require.NoError(t, err)
	t.Cleanup(products.Close)
	users, err := provider.NewUsers(s, log)
	require.NoError(t, err)
	t.Cleanup(users.Close)
	staff, err := provider.NewStaff(s, log)
	require.NoError(t, err)
	t.Cleanup(staff.Close)
	orders, err := provider.NewOrders(s, log, provider.OrdersOptions{})
	require.NoError(t, err)
	t.Cleanup(orders.Close)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Products:    products,
		Users:       users,
		Staff:       staff,
		Orders:      orders,
		DashboardUC: analytics.NewDashboardUseCase(products, orders, users),
		JWTSecret:   testJWTSecret,
	})

	// Esperar el primer snapshot de cada provider para que las listas no
	// respondan 503 por carga inicial.
	require.Eventually(t, func() bool {
		return !products.Loading() && !users.Loading() && !staff.Loading() && !orders.Loading()
	}, 2*time.Second, 5*time.Millisecond)

	return app, s
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenFor(t))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Protección de rutas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_RutasProtegidasSinToken_401(t *testing.T) {
	app, _ := buildRouterApp(t)

	for _, path := range []string{"/api/products", "/api/users", "/api/staff", "/api/orders", "/api/dashboard/stats"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "sin token %s debe responder 401", path)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD de productos de punta a punta
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ProductosCRUD(t *testing.T) {
	app, _ := buildRouterApp(t)

	// Alta
	resp := doJSON(t, app, http.MethodPost, "/api/products", map[string]any{
		"name":     "Teclado",
		"price":    "120.00",
		"category": "periféricos",
		"stock":    10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.NotEmpty(t, created.ID)

	// La lista refleja el alta cuando vuelve el snapshot.
	require.Eventually(t, func() bool {
		r := doJSON(t, app, http.MethodGet, "/api/products/"+created.ID, nil)
		defer r.Body.Close()
		return r.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	// Edición
	resp = doJSON(t, app, http.MethodPut, "/api/products/"+created.ID, map[string]any{
		"name":  "Teclado mecánico",
		"price": "150.00",
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Baja
	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	require.Eventually(t, func() bool {
		r := doJSON(t, app, http.MethodGet, "/api/products/"+created.ID, nil)
		defer r.Body.Close()
		return r.StatusCode == http.StatusNotFound
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRouter_ProductoSinNombre_400(t *testing.T) {
	app, _ := buildRouterApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/products", map[string]any{"price": "5.00"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes — el alta por HTTP ajusta los contadores del cliente
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_CrearOrdenAjustaContadoresDelCliente(t *testing.T) {
	app, s := buildRouterApp(t)

	// Alta del cliente por la API.
	resp := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{
		"name":   "Ana",
		"email":  "ana@test.local",
		"status": "active",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	resp.Body.Close()

	// Alta de la orden.
	resp = doJSON(t, app, http.MethodPost, "/api/orders", map[string]any{
		"userId":   user.ID,
		"userName": "Ana",
		"items": []map[string]any{
			{"productId": "p1", "productName": "Teclado", "quantity": 2, "price": "60.00", "subtotal": "120.00"},
		},
		"total":  "120.00",
		"status": "pending",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// El documento del cliente en el store refleja el ajuste.
	raw, err := s.Get(context.Background(), provider.CollUsers, user.ID)
	require.NoError(t, err)
	require.NotNil(t, raw)
	var usr entity.User
	require.NoError(t, json.Unmarshal(raw, &usr))
	assert.Equal(t, 1, usr.Orders)
	assert.Equal(t, "120", usr.TotalSpent.String())
}

func TestRouter_OrdenSinCliente_400(t *testing.T) {
	app, _ := buildRouterApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/orders", map[string]any{
		"items": []map[string]any{{"productId": "p1", "quantity": 1}},
		"total": "10.00",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_DashboardStats(t *testing.T) {
	app, _ := buildRouterApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/orders", map[string]any{
		"userId": "u1",
		"items": []map[string]any{
			{"productId": "p1", "productName": "Teclado", "quantity": 3, "price": "10.00", "subtotal": "30.00"},
		},
		"total":  "30.00",
		"status": "pending",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	require.Eventually(t, func() bool {
		r := doJSON(t, app, http.MethodGet, "/api/dashboard/stats", nil)
		defer r.Body.Close()
		if r.StatusCode != http.StatusOK {
			return false
		}
		var stats struct {
			TotalOrders  int    `json:"totalOrders"`
			TotalRevenue string `json:"totalRevenue"`
		}
		if err := json.NewDecoder(r.Body).Decode(&stats); err != nil {
			return false
		}
		return stats.TotalOrders == 1 && stats.TotalRevenue == "30"
	}, 2*time.Second, 10*time.Millisecond, "las stats deben reflejar la orden creada")
}
