package stock

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// LedgerUseCase vista de solo lectura del libro de lotes. Consulta sobre el pool,
// sin transacción: re-consultar devuelve el estado vigente.
type LedgerUseCase struct {
	articleRepo repository.ArticleRepository
	batchRepo   repository.StockBatchRepository
}

// NewLedgerUseCase construye la vista.
func NewLedgerUseCase(articleRepo repository.ArticleRepository, batchRepo repository.StockBatchRepository) *LedgerUseCase {
	return &LedgerUseCase{articleRepo: articleRepo, batchRepo: batchRepo}
}

// BatchesForArticle devuelve los lotes del artículo en orden FIFO determinista
// (entry_date ascendente, desempate por id). ErrNotFound si el artículo no existe.
func (uc *LedgerUseCase) BatchesForArticle(ctx context.Context, articleID string) ([]*entity.StockBatch, error) {
	article, err := uc.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrNotFound
	}
	return uc.batchRepo.FindByArticleOrderedByEntryDate(ctx, articleID)
}
