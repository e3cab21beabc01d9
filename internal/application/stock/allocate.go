package stock

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

const (
	// DefaultLowStockTrigger umbral reactivo: al quedar el agregado en o bajo este
	// valor tras una asignación, se pide una notificación de stock bajo.
	DefaultLowStockTrigger = 5

	// maxAttempts reintentos ante ErrConflict, con relectura fresca en cada intento.
	maxAttempts = 3
)

// AllocationResult resultado de una asignación. Fulfilled en false significa stock
// insuficiente: un desenlace normal del negocio, no un error.
type AllocationResult struct {
	Fulfilled bool
	UnitsSold int
}

// AllocateUseCase motor de asignación FIFO: descuenta la cantidad pedida de los
// lotes más antiguos de un artículo y mantiene el contador agregado consistente.
// Todo-o-nada: si el total disponible no alcanza, no muta nada.
type AllocateUseCase struct {
	txRunner        TxRunner
	notifier        Notifier
	lowStockTrigger int
}

// NewAllocateUseCase construye el motor. lowStockTrigger <= 0 aplica el default (5).
func NewAllocateUseCase(txRunner TxRunner, notifier Notifier, lowStockTrigger int) *AllocateUseCase {
	if lowStockTrigger <= 0 {
		lowStockTrigger = DefaultLowStockTrigger
	}
	return &AllocateUseCase{txRunner: txRunner, notifier: notifier, lowStockTrigger: lowStockTrigger}
}

// Allocate descuenta quantity unidades del artículo consumiendo lotes en orden FIFO,
// dentro de una transacción con la fila del artículo bloqueada. Ante ErrConflict
// reintenta hasta maxAttempts veces con relectura fresca. Tras confirmar, si el nuevo
// agregado queda en o bajo el umbral reactivo, pide la notificación de stock bajo
// (el scanner periódico respalda un fallo en ese upsert).
func (uc *AllocateUseCase) Allocate(ctx context.Context, articleID string, quantity int) (*AllocationResult, error) {
	if articleID == "" || quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var (
		result  *AllocationResult
		article *entity.Article
		err     error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, article, err = uc.allocateOnce(ctx, articleID, quantity)
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	if result.Fulfilled {
		uc.NotifyIfLow(ctx, article)
	}
	return result, nil
}

// allocateOnce ejecuta un intento completo en una transacción nueva.
func (uc *AllocateUseCase) allocateOnce(ctx context.Context, articleID string, quantity int) (*AllocationResult, *entity.Article, error) {
	var (
		res     AllocationResult
		updated *entity.Article
	)
	err := uc.txRunner.Run(ctx, func(
		articleRepo repository.ArticleRepository,
		batchRepo repository.StockBatchRepository,
	) error {
		article, insufficient, err := consumeFIFO(ctx, articleRepo, batchRepo, articleID, quantity)
		if err != nil {
			return err
		}
		updated = article
		if insufficient {
			res = AllocationResult{Fulfilled: false}
			return nil
		}
		res = AllocationResult{Fulfilled: true, UnitsSold: quantity}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &res, updated, nil
}

// AllocateInTx consume stock FIFO usando los repositorios del caller (misma
// transacción, p. ej. una venta multi-línea). A diferencia de Allocate, el stock
// insuficiente se señala con ErrInsufficientStock para que el caller aborte la tx
// completa. Devuelve el artículo con el agregado ya actualizado.
func (uc *AllocateUseCase) AllocateInTx(
	ctx context.Context,
	articleRepo repository.ArticleRepository,
	batchRepo repository.StockBatchRepository,
	articleID string,
	quantity int,
) (*entity.Article, error) {
	if articleID == "" || quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	article, insufficient, err := consumeFIFO(ctx, articleRepo, batchRepo, articleID, quantity)
	if err != nil {
		return nil, err
	}
	if insufficient {
		return nil, domain.ErrInsufficientStock
	}
	return article, nil
}

// NotifyIfLow pide la notificación de stock bajo si el agregado del artículo quedó
// en o bajo el umbral reactivo. Pensado para después del commit; un fallo aquí no
// revierte la asignación (el scanner lo cubre en la siguiente pasada).
func (uc *AllocateUseCase) NotifyIfLow(ctx context.Context, article *entity.Article) {
	if article == nil || uc.notifier == nil {
		return
	}
	if article.AvailableStock <= uc.lowStockTrigger {
		_ = uc.notifier.NotifyLowStock(ctx, article)
	}
}

// consumeFIFO es el corazón del motor: bloquea la fila del artículo, lee los lotes
// en orden FIFO, verifica el total ANTES de mutar (todo-o-nada) y recorre
// descontando min(remaining, pendiente) por lote hasta cubrir la cantidad.
// Al final persiste el agregado como el nuevo total de los lotes.
func consumeFIFO(
	ctx context.Context,
	articleRepo repository.ArticleRepository,
	batchRepo repository.StockBatchRepository,
	articleID string,
	quantity int,
) (article *entity.Article, insufficient bool, err error) {
	article, err = articleRepo.GetForUpdate(ctx, articleID)
	if err != nil {
		return nil, false, err
	}
	if article == nil {
		return nil, false, domain.ErrNotFound
	}

	batches, err := batchRepo.FindByArticleOrderedByEntryDate(ctx, articleID)
	if err != nil {
		return nil, false, err
	}

	total := 0
	for _, b := range batches {
		if b.RemainingQuantity > 0 {
			total += b.RemainingQuantity
		}
	}
	if total < quantity {
		// Sin mutaciones: si el total no alcanza, ningún lote se toca.
		return article, true, nil
	}

	stillNeeded := quantity
	now := time.Now()
	for _, b := range batches {
		if stillNeeded == 0 {
			break
		}
		if b.RemainingQuantity <= 0 {
			continue
		}
		deduct := b.RemainingQuantity
		if stillNeeded < deduct {
			deduct = stillNeeded
		}
		b.RemainingQuantity -= deduct
		if b.RemainingQuantity == 0 {
			b.Status = entity.BatchStatusSoldOut
		}
		b.UpdatedAt = now
		if err := batchRepo.UpdateRemaining(ctx, b); err != nil {
			return nil, false, err
		}
		stillNeeded -= deduct
	}

	newTotal := total - quantity
	if err := articleRepo.UpdateAvailableStock(ctx, articleID, newTotal); err != nil {
		return nil, false, err
	}
	article.AvailableStock = newTotal
	return article, false, nil
}
