// Package analytics calcula el snapshot de estadísticas del dashboard a
// partir de las tres listas cargadas por los providers.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/commerce-admin/internal/application/dto"
	"github.com/tu-usuario/commerce-admin/internal/application/provider"
	"github.com/tu-usuario/commerce-admin/internal/domain"
	"github.com/tu-usuario/commerce-admin/internal/domain/entity"
)

const (
	recentOrdersLimit = 5
	topProductsLimit  = 5
)

// DashboardUseCase deriva los agregados del panel desde los providers. No
// hay ruta incremental ni memoización: cada llamada recomputa todo desde
// cero sobre las listas en memoria.
type DashboardUseCase struct {
	products *provider.Products
	orders   *provider.Orders
	users    *provider.Users
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(products *provider.Products, orders *provider.Orders, users *provider.Users) *DashboardUseCase {
	return &DashboardUseCase{products: products, orders: orders, users: users}
}

// Stats devuelve el snapshot de estadísticas. Mientras alguna de las tres
// colecciones siga cargando devuelve domain.ErrNotReady: los agregados solo
// se computan con las tres listas completas.
func (uc *DashboardUseCase) Stats() (*dto.DashboardStats, error) {
	if uc.products.Loading() || uc.orders.Loading() || uc.users.Loading() {
		return nil, domain.ErrNotReady
	}
	stats := ComputeStats(uc.products.List(), uc.orders.List(), uc.users.List())
	return &stats, nil
}

// ComputeStats es la función pura del agregador: totales por colección,
// ingresos, órdenes recientes y ranking de productos.
//
// TotalRevenue suma el total de todas las órdenes sin filtrar por estado
// (canceladas y reembolsadas incluidas). El ranking acumula las unidades
// vendidas por productId a través de las líneas de todas las órdenes; los
// empates no tienen desempate documentado y su orden relativo queda
// definido por la implementación.
func ComputeStats(products []entity.Product, orders []entity.Order, users []entity.User) dto.DashboardStats {
	revenue := decimal.Zero
	for _, ord := range orders {
		revenue = revenue.Add(ord.Total)
	}

	recent := make([]entity.Order, len(orders))
	copy(recent, orders)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt > recent[j].CreatedAt
	})
	if len(recent) > recentOrdersLimit {
		recent = recent[:recentOrdersLimit]
	}

	sales := make(map[string]*dto.TopProduct)
	var seen []string // para recorrido determinista en el sort estable
	for _, ord := range orders {
		for _, item := range ord.Items {
			tp, ok := sales[item.ProductID]
			if !ok {
				tp = &dto.TopProduct{ID: item.ProductID, Name: item.ProductName}
				sales[item.ProductID] = tp
				seen = append(seen, item.ProductID)
			}
			tp.Sales += item.Quantity
		}
	}
	top := make([]dto.TopProduct, 0, len(seen))
	for _, id := range seen {
		top = append(top, *sales[id])
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Sales > top[j].Sales
	})
	if len(top) > topProductsLimit {
		top = top[:topProductsLimit]
	}

	return dto.DashboardStats{
		TotalOrders:   len(orders),
		TotalRevenue:  revenue,
		TotalUsers:    len(users),
		TotalProducts: len(products),
		RecentOrders:  recent,
		TopProducts:   top,
	}
}
