package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta: artículo y cantidad.
type SaleLineRequest struct {
	ArticleID string `json:"article_id"`
	Quantity  int    `json:"quantity"`
}

// CreateSaleRequest registro de una venta multi-línea.
type CreateSaleRequest struct {
	CustomerID string            `json:"customer_id"`
	Articles   []SaleLineRequest `json:"articles"`
}

// SaleDetailResponse línea confirmada de una venta.
type SaleDetailResponse struct {
	ID        string          `json:"id"`
	ArticleID string          `json:"article_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SaleResponse venta con sus detalles (vacíos en listados).
type SaleResponse struct {
	ID         string               `json:"id"`
	CustomerID string               `json:"customer_id"`
	UserID     string               `json:"user_id"`
	TotalValue decimal.Decimal      `json:"total_value"`
	CreatedAt  time.Time            `json:"created_at"`
	Details    []SaleDetailResponse `json:"details,omitempty"`
}

// SaleListResponse página de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
