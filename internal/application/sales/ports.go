package sales

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// SaleTxRunner transacción de venta: repos de artículos, lotes y ventas atados a la
// misma tx, para que el consumo FIFO y la venta se confirmen juntos.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		articleRepo repository.ArticleRepository,
		batchRepo repository.StockBatchRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// DetailForPDF línea enriquecida para el recibo (nombre resuelto desde el artículo).
type DetailForPDF struct {
	ArticleName string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// ReceiptPDFGenerator puerto de generación del recibo de venta en PDF.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, customer *entity.Customer, details []DetailForPDF) ([]byte, error)
}
