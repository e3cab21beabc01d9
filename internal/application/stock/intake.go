package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// EntryInput entrada para registrar un lote nuevo (compra/recepción de mercancía).
type EntryInput struct {
	ArticleID     string
	Quantity      int
	EntryDate     time.Time // cero = ahora
	BatchLabel    string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Weight        float64
}

// RegisterEntryUseCase registra entradas de stock: crea el lote y suma la cantidad
// al contador agregado del artículo en la misma transacción (el inverso de la
// asignación, con el mismo contrato de consistencia).
type RegisterEntryUseCase struct {
	txRunner TxRunner
}

// NewRegisterEntryUseCase construye el caso de uso.
func NewRegisterEntryUseCase(txRunner TxRunner) *RegisterEntryUseCase {
	return &RegisterEntryUseCase{txRunner: txRunner}
}

// RegisterEntry crea el lote y actualiza el agregado. La cantidad inicial queda
// íntegra como RemainingQuantity; EntryDate define su posición en la cola FIFO.
func (uc *RegisterEntryUseCase) RegisterEntry(ctx context.Context, in EntryInput) (*entity.StockBatch, error) {
	if in.ArticleID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	entryDate := in.EntryDate
	if entryDate.IsZero() {
		entryDate = now
	}

	batch := &entity.StockBatch{
		ID:                uuid.New().String(),
		ArticleID:         in.ArticleID,
		EntryDate:         entryDate,
		OriginalQuantity:  in.Quantity,
		RemainingQuantity: in.Quantity,
		BatchLabel:        in.BatchLabel,
		Status:            entity.BatchStatusAvailable,
		PurchasePrice:     in.PurchasePrice,
		SalePrice:         in.SalePrice,
		Weight:            in.Weight,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := uc.txRunner.Run(ctx, func(
		articleRepo repository.ArticleRepository,
		batchRepo repository.StockBatchRepository,
	) error {
		article, err := articleRepo.GetForUpdate(ctx, in.ArticleID)
		if err != nil {
			return err
		}
		if article == nil {
			return domain.ErrNotFound
		}
		if err := batchRepo.Create(ctx, batch); err != nil {
			return err
		}
		return articleRepo.UpdateAvailableStock(ctx, in.ArticleID, article.AvailableStock+in.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}
