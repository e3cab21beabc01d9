package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateArticleRequest alta de artículo. El stock inicial entra por lotes
// (entradas de stock), no por este campo.
type CreateArticleRequest struct {
	Name          string           `json:"name"`
	Brand         string           `json:"brand"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	Weight        float64          `json:"weight"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
	ProviderID    string           `json:"provider_id"`
	CategoryID    string           `json:"category_id"`
}

// UpdateArticleRequest actualización parcial (punteros: nil = sin cambio).
// AvailableStock no se actualiza por aquí: lo mantiene el motor de asignación.
type UpdateArticleRequest struct {
	Name          *string          `json:"name"`
	Brand         *string          `json:"brand"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	Weight        *float64         `json:"weight"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
	ProviderID    *string          `json:"provider_id"`
	CategoryID    *string          `json:"category_id"`
}

// ArticleResponse representación de salida de un artículo.
type ArticleResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand"`
	AvailableStock int             `json:"available_stock"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	Weight         float64         `json:"weight"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	ProviderID     string          `json:"provider_id,omitempty"`
	CategoryID     string          `json:"category_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ArticleListResponse página de artículos.
type ArticleListResponse struct {
	Items []ArticleResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
