package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ stock.TxRunner = (*TxRunner)(nil)
var _ sales.SaleTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Los errores de
// serialización/deadlock salen como domain.ErrConflict para que el motor reintente.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	articleRepo repository.ArticleRepository,
	batchRepo repository.StockBatchRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapStorageErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	articleRepo := NewArticleRepository(tx)
	batchRepo := NewStockBatchRepository(tx)

	if err := fn(articleRepo, batchRepo); err != nil {
		if isRetryableTxError(err) {
			return mapStorageErr("allocation transaction", err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapStorageErr("commit transaction", err)
	}
	return nil
}

// RunSale inicia una transacción con repos de inventario y ventas (para CreateSale).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	articleRepo repository.ArticleRepository,
	batchRepo repository.StockBatchRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapStorageErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	articleRepo := NewArticleRepository(tx)
	batchRepo := NewStockBatchRepository(tx)
	saleRepo := NewSaleRepository(tx)

	if err := fn(articleRepo, batchRepo, saleRepo); err != nil {
		if isRetryableTxError(err) {
			return mapStorageErr("sale transaction", err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapStorageErr("commit transaction", err)
	}
	return nil
}
