package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// PDFUseCase arma el recibo de venta: resuelve cliente y nombres de artículo y
// delega el render al generador.
type PDFUseCase struct {
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	articleRepo  repository.ArticleRepository
	generator    ReceiptPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	articleRepo repository.ArticleRepository,
	generator ReceiptPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{saleRepo: saleRepo, customerRepo: customerRepo, articleRepo: articleRepo, generator: generator}
}

// GenerateSaleReceipt genera el PDF del recibo y un nombre de archivo sugerido.
func (uc *PDFUseCase) GenerateSaleReceipt(ctx context.Context, saleID string) ([]byte, string, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}

	details, err := uc.saleRepo.ListDetails(ctx, saleID)
	if err != nil {
		return nil, "", err
	}

	customer, err := uc.customerRepo.GetByID(ctx, sale.CustomerID)
	if err != nil {
		return nil, "", err
	}

	enriched := make([]DetailForPDF, 0, len(details))
	for _, d := range details {
		name := d.ArticleID
		if article, err := uc.articleRepo.GetByID(ctx, d.ArticleID); err == nil && article != nil {
			name = article.Name
		}
		enriched = append(enriched, DetailForPDF{
			ArticleName: name,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			LineTotal:   d.LineTotal,
		})
	}

	pdf, err := uc.generator.GenerateReceiptPDF(ctx, sale, customer, enriched)
	if err != nil {
		return nil, "", fmt.Errorf("generar recibo PDF: %w", err)
	}
	filename := fmt.Sprintf("recibo-%s.pdf", sale.ID)
	return pdf, filename, nil
}
