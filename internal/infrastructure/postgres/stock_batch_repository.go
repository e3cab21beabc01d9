package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*StockBatchRepo)(nil)

// StockBatchRepo implementación de StockBatchRepository sobre PostgreSQL (usable con pool o tx).
type StockBatchRepo struct {
	q Querier
}

// NewStockBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBatchRepository(q Querier) *StockBatchRepo {
	return &StockBatchRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *StockBatchRepo) Create(ctx context.Context, b *entity.StockBatch) error {
	query := `
		INSERT INTO stock_batches (id, article_id, entry_date, original_quantity, remaining_quantity, batch_label, status, purchase_price, sale_price, weight, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ArticleID, b.EntryDate, b.OriginalQuantity, b.RemainingQuantity,
		b.BatchLabel, b.Status, b.PurchasePrice, b.SalePrice, b.Weight, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return mapStorageErr("insert batch", err)
	}
	return nil
}

// FindByArticleOrderedByEntryDate devuelve los lotes del artículo en orden FIFO:
// entry_date ascendente, desempate por id ascendente para que la vista sea determinista.
func (r *StockBatchRepo) FindByArticleOrderedByEntryDate(ctx context.Context, articleID string) ([]*entity.StockBatch, error) {
	query := `
		SELECT id, article_id, entry_date, original_quantity, remaining_quantity, batch_label, status, purchase_price, sale_price, weight, created_at, updated_at
		FROM stock_batches
		WHERE article_id = $1
		ORDER BY entry_date ASC, id ASC`
	rows, err := r.q.Query(ctx, query, articleID)
	if err != nil {
		return nil, mapStorageErr("find batches for article", err)
	}
	defer rows.Close()

	var list []*entity.StockBatch
	for rows.Next() {
		var b entity.StockBatch
		if err := rows.Scan(
			&b.ID, &b.ArticleID, &b.EntryDate, &b.OriginalQuantity, &b.RemainingQuantity,
			&b.BatchLabel, &b.Status, &b.PurchasePrice, &b.SalePrice, &b.Weight, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return list, nil
}

// UpdateRemaining persiste remaining_quantity y status de un lote tocado por la asignación.
func (r *StockBatchRepo) UpdateRemaining(ctx context.Context, b *entity.StockBatch) error {
	query := `
		UPDATE stock_batches
		SET remaining_quantity = $2, status = $3, updated_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, b.ID, b.RemainingQuantity, b.Status, b.UpdatedAt)
	if err != nil {
		return mapStorageErr("update batch remaining", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update batch remaining: lote %s no existe", b.ID)
	}
	return nil
}
