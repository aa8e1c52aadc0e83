package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/commerce-admin/internal/domain/entity"
)

// DashboardStats respuesta de GET /api/dashboard/stats.
//
// TotalRevenue suma el total de TODAS las órdenes sin filtrar por estado:
// las canceladas y reembolsadas cuentan tal cual (comportamiento heredado,
// documentado en DESIGN.md).
type DashboardStats struct {
	TotalOrders   int             `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalUsers    int             `json:"totalUsers"`
	TotalProducts int             `json:"totalProducts"`
	RecentOrders  []entity.Order  `json:"recentOrders"` // 5 más recientes, createdAt desc
	TopProducts   []TopProduct    `json:"topProducts"`  // top 5 por unidades vendidas
}

// TopProduct entrada del ranking de productos por unidades vendidas
// acumuladas en las líneas de todas las órdenes.
type TopProduct struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Sales int    `json:"sales"`
}
