package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Article representa un artículo del inventario (raíz de agregado).
// AvailableStock es el contador desnormalizado: debe coincidir con la suma de
// RemainingQuantity de sus lotes. Lo mantiene el motor de asignación; nadie más lo toca.
type Article struct {
	ID             string
	Name           string
	Brand          string
	AvailableStock int
	PurchasePrice  decimal.Decimal
	SalePrice      decimal.Decimal
	Weight         float64
	ExpiryDate     *time.Time // nil = no vence
	ProviderID     string
	CategoryID     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
