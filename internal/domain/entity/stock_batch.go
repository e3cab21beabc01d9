package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados descriptivos de un lote. El motor de asignación decide por
// RemainingQuantity > 0, no por Status; el status es informativo para la UI.
const (
	BatchStatusAvailable = "available"
	BatchStatusSoldOut   = "sold-out"
	BatchStatusReserved  = "reserved"
)

// StockBatch representa un lote fechado de stock de un artículo: la unidad de
// consumo FIFO. EntryDate es la llave de orden (desempate por id ascendente).
// OriginalQuantity es inmutable; RemainingQuantity solo la muta el motor de asignación.
type StockBatch struct {
	ID                string
	ArticleID         string
	EntryDate         time.Time
	OriginalQuantity  int
	RemainingQuantity int
	BatchLabel        string
	Status            string
	PurchasePrice     decimal.Decimal
	SalePrice         decimal.Decimal
	Weight            float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
