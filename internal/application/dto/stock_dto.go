package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SellStockRequest venta directa de stock de un artículo (consumo FIFO).
type SellStockRequest struct {
	ArticleID string `json:"article_id"`
	Quantity  int    `json:"quantity"`
}

// AllocationResponse resultado de la asignación.
type AllocationResponse struct {
	Fulfilled bool `json:"fulfilled"`
	UnitsSold int  `json:"units_sold"`
}

// RegisterEntryRequest alta de un lote (entrada de mercancía).
type RegisterEntryRequest struct {
	ArticleID     string          `json:"article_id"`
	Quantity      int             `json:"quantity"`
	EntryDate     *time.Time      `json:"entry_date"`
	BatchLabel    string          `json:"batch_label"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Weight        float64         `json:"weight"`
}

// BatchResponse representación de salida de un lote en la vista FIFO.
type BatchResponse struct {
	ID                string          `json:"id"`
	ArticleID         string          `json:"article_id"`
	EntryDate         time.Time       `json:"entry_date"`
	OriginalQuantity  int             `json:"original_quantity"`
	RemainingQuantity int             `json:"remaining_quantity"`
	BatchLabel        string          `json:"batch_label,omitempty"`
	Status            string          `json:"status"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	Weight            float64         `json:"weight,omitempty"`
}
