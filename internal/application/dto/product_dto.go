package dto

import "github.com/shopspring/decimal"

// ProductForm datos del formulario de producto (alta y edición).
type ProductForm struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image"`
}
