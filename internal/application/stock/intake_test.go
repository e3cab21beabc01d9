package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func TestRegisterEntry_CreaLoteYSumaAgregado(t *testing.T) {
	store := newMemStore()
	seedArticle(store, 3)

	uc := stock.NewRegisterEntryUseCase(&memTxRunner{store: store})
	batch, err := uc.RegisterEntry(context.Background(), stock.EntryInput{
		ArticleID:  testArticleID,
		Quantity:   7,
		BatchLabel: "L-2026-02",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, batch.ID)
	assert.Equal(t, 7, batch.OriginalQuantity)
	assert.Equal(t, 7, batch.RemainingQuantity, "el lote entra íntegro como remanente")
	assert.Equal(t, entity.BatchStatusAvailable, batch.Status)
	assert.False(t, batch.EntryDate.IsZero(), "sin fecha explícita se usa ahora")

	assert.Equal(t, 10, store.articleStock(testArticleID))
	assert.Equal(t, store.sumRemaining(testArticleID), store.articleStock(testArticleID))
}

func TestRegisterEntry_FechaExplicitaDefineOrdenFIFO(t *testing.T) {
	store := newMemStore()
	seedArticle(store, 5) // batch-a con entry_date 2026-01-10

	uc := stock.NewRegisterEntryUseCase(&memTxRunner{store: store})
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	batch, err := uc.RegisterEntry(context.Background(), stock.EntryInput{
		ArticleID: testArticleID,
		Quantity:  2,
		EntryDate: older,
	})
	require.NoError(t, err)
	assert.Equal(t, older, batch.EntryDate)

	// Una venta posterior debe consumir primero el lote retro-fechado.
	alloc := newAllocator(store, nil)
	_, err = alloc.Allocate(context.Background(), testArticleID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, store.batchRemaining(batch.ID), "el lote más antiguo por fecha va primero")
	assert.Equal(t, 5, store.batchRemaining("batch-a"))
}

func TestRegisterEntry_Validacion(t *testing.T) {
	store := newMemStore()
	seedArticle(store, 1)
	uc := stock.NewRegisterEntryUseCase(&memTxRunner{store: store})

	_, err := uc.RegisterEntry(context.Background(), stock.EntryInput{ArticleID: "", Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterEntry(context.Background(), stock.EntryInput{ArticleID: testArticleID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterEntry_ArticuloInexistente(t *testing.T) {
	store := newMemStore()
	uc := stock.NewRegisterEntryUseCase(&memTxRunner{store: store})

	_, err := uc.RegisterEntry(context.Background(), stock.EntryInput{ArticleID: "fantasma", Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Libro de lotes ────────────────────────────────────────────────────────────

func TestLedger_BatchesEnOrdenFIFO(t *testing.T) {
	store := newMemStore()
	seedArticle(store, 2, 5, 10)

	uc := stock.NewLedgerUseCase(&memArticleRepo{store: store}, &memBatchRepo{store: store})
	batches, err := uc.BatchesForArticle(context.Background(), testArticleID)
	require.NoError(t, err)
	require.Len(t, batches, 3)

	assert.Equal(t, "batch-a", batches[0].ID)
	assert.Equal(t, "batch-b", batches[1].ID)
	assert.Equal(t, "batch-c", batches[2].ID)
	for i := 1; i < len(batches); i++ {
		assert.False(t, batches[i].EntryDate.Before(batches[i-1].EntryDate))
	}
}

func TestLedger_IncluyeLotesAgotados(t *testing.T) {
	store := newMemStore()
	seedArticle(store, 2, 5)

	alloc := newAllocator(store, nil)
	_, err := alloc.Allocate(context.Background(), testArticleID, 2)
	require.NoError(t, err)

	uc := stock.NewLedgerUseCase(&memArticleRepo{store: store}, &memBatchRepo{store: store})
	batches, err := uc.BatchesForArticle(context.Background(), testArticleID)
	require.NoError(t, err)
	require.Len(t, batches, 2, "los lotes agotados siguen visibles en el libro")
	assert.Equal(t, 0, batches[0].RemainingQuantity)
	assert.Equal(t, entity.BatchStatusSoldOut, batches[0].Status)
}

func TestLedger_ArticuloInexistente(t *testing.T) {
	store := newMemStore()
	uc := stock.NewLedgerUseCase(&memArticleRepo{store: store}, &memBatchRepo{store: store})

	_, err := uc.BatchesForArticle(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
