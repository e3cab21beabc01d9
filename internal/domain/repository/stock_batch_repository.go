package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// StockBatchRepository puerto de persistencia para lotes de stock.
// La vista FIFO es determinista: entry_date ascendente, desempate por id ascendente.
// Re-consultar devuelve el estado actual, nunca un snapshot cacheado.
type StockBatchRepository interface {
	Create(ctx context.Context, batch *entity.StockBatch) error
	FindByArticleOrderedByEntryDate(ctx context.Context, articleID string) ([]*entity.StockBatch, error)
	// UpdateRemaining persiste remaining_quantity y status de un lote tocado por la asignación.
	UpdateRemaining(ctx context.Context, batch *entity.StockBatch) error
}
