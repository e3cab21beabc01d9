package stock

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de asignación: lote mutado y
// contador agregado se confirman juntos o no se confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		articleRepo repository.ArticleRepository,
		batchRepo repository.StockBatchRepository,
	) error) error
}

// Notifier puerto hacia el almacén de notificaciones. El upsert es idempotente por
// (artículo, kind); llamarlo de más no duplica.
type Notifier interface {
	NotifyLowStock(ctx context.Context, article *entity.Article) error
}
