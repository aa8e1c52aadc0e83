package analytics_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/commerce-admin/internal/application/analytics"
	"github.com/tu-usuario/commerce-admin/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// ComputeStats — función pura del agregador
// ──────────────────────────────────────────────────────────────────────────────

// Con las tres listas vacías todo queda en cero; los ingresos son el cero
// decimal, no nil.
func TestComputeStats_ListasVacias(t *testing.T) {
	stats := analytics.ComputeStats(nil, nil, nil)

	assert.Equal(t, 0, stats.TotalOrders)
	assert.Equal(t, 0, stats.TotalUsers)
	assert.Equal(t, 0, stats.TotalProducts)
	assert.True(t, stats.TotalRevenue.IsZero(), "sin órdenes los ingresos son cero")
	assert.Empty(t, stats.RecentOrders)
	assert.Empty(t, stats.TopProducts)
}

// Los ingresos suman el total de TODAS las órdenes, sin filtrar por estado:
// las canceladas y reembolsadas cuentan igual.
func TestComputeStats_IngresosSumanSinFiltrarEstado(t *testing.T) {
	orders := []entity.Order{
		{ID: "a", Total: decimal.NewFromInt(10), Status: entity.OrderStatusDelivered},
		{ID: "b", Total: decimal.NewFromInt(25), Status: entity.OrderStatusCancelled},
	}

	stats := analytics.ComputeStats(nil, orders, nil)

	assert.Equal(t, 2, stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(35)),
		"la cancelada cuenta igual: 10+25=35, fue %s", stats.TotalRevenue)
}

// Los totales por colección son el largo de cada lista.
func TestComputeStats_TotalesPorColeccion(t *testing.T) {
	products := []entity.Product{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	users := []entity.User{{ID: "u1"}, {ID: "u2"}}
	orders := []entity.Order{{ID: "o1"}}

	stats := analytics.ComputeStats(products, orders, users)

	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalOrders)
}

// Las órdenes recientes son las 5 más nuevas en orden descendente por
// createdAt, sin importar el orden de entrada.
func TestComputeStats_RecientesCincoMasNuevasDescendente(t *testing.T) {
	var orders []entity.Order
	for i := 1; i <= 8; i++ {
		orders = append(orders, entity.Order{
			ID:        fmt.Sprintf("o%d", i),
			CreatedAt: int64(i * 100),
		})
	}

	stats := analytics.ComputeStats(nil, orders, nil)

	require.Len(t, stats.RecentOrders, 5, "recientes se recorta a 5")
	for i, want := range []string{"o8", "o7", "o6", "o5", "o4"} {
		assert.Equal(t, want, stats.RecentOrders[i].ID)
	}
}

// El ranking acumula unidades por productId a través de las líneas de todas
// las órdenes.
func TestComputeStats_RankingAcumulaUnidadesPorProducto(t *testing.T) {
	orders := []entity.Order{
		{ID: "o1", Items: []entity.OrderItem{
			{ProductID: "A", ProductName: "Alfa", Quantity: 2},
			{ProductID: "B", ProductName: "Beta", Quantity: 5},
		}},
		{ID: "o2", Items: []entity.OrderItem{
			{ProductID: "A", ProductName: "Alfa", Quantity: 1},
		}},
	}

	stats := analytics.ComputeStats(nil, orders, nil)

	require.Len(t, stats.TopProducts, 2)
	assert.Equal(t, "B", stats.TopProducts[0].ID, "B con 5 unidades debe ir primero")
	assert.Equal(t, 5, stats.TopProducts[0].Sales)
	assert.Equal(t, "A", stats.TopProducts[1].ID, "A acumula 2+1=3 a través de las órdenes")
	assert.Equal(t, 3, stats.TopProducts[1].Sales)
}

// El ranking se recorta al top 5 aunque haya más productos vendidos.
func TestComputeStats_RankingRecortaACinco(t *testing.T) {
	var items []entity.OrderItem
	for i := 1; i <= 7; i++ {
		items = append(items, entity.OrderItem{
			ProductID:   fmt.Sprintf("p%d", i),
			ProductName: fmt.Sprintf("Producto %d", i),
			Quantity:    i,
		})
	}
	orders := []entity.Order{{ID: "o1", Items: items}}

	stats := analytics.ComputeStats(nil, orders, nil)

	require.Len(t, stats.TopProducts, 5)
	assert.Equal(t, "p7", stats.TopProducts[0].ID)
	assert.Equal(t, 7, stats.TopProducts[0].Sales)
	assert.Equal(t, "p3", stats.TopProducts[4].ID, "el sexto y séptimo quedan fuera")
}

// El recompute es puro: la misma entrada produce el mismo resultado y no
// modifica las listas de entrada.
func TestComputeStats_NoMutaLasListasDeEntrada(t *testing.T) {
	orders := []entity.Order{
		{ID: "viejo", CreatedAt: 100},
		{ID: "nuevo", CreatedAt: 200},
	}

	_ = analytics.ComputeStats(nil, orders, nil)

	assert.Equal(t, "viejo", orders[0].ID, "la lista de entrada conserva su orden original")
	assert.Equal(t, "nuevo", orders[1].ID)
}
