package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta registrada (cabecera).
type Sale struct {
	ID         string
	CustomerID string
	UserID     string
	TotalValue decimal.Decimal
	CreatedAt  time.Time
}

// SaleDetail línea de venta: artículo, cantidad vendida y valor de la línea.
type SaleDetail struct {
	ID        string
	SaleID    string
	ArticleID string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}
