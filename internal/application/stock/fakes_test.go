package stock_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// memStore estado compartido en memoria para los fakes de repositorio.
// El mutex del txRunner serializa las "transacciones", emulando el bloqueo
// de fila que en producción da SELECT FOR UPDATE.
type memStore struct {
	mu       sync.Mutex
	articles map[string]*entity.Article
	batches  map[string]*entity.StockBatch
}

func newMemStore() *memStore {
	return &memStore{
		articles: make(map[string]*entity.Article),
		batches:  make(map[string]*entity.StockBatch),
	}
}

func (s *memStore) addArticle(a *entity.Article) {
	cp := *a
	s.articles[a.ID] = &cp
}

func (s *memStore) addBatch(b *entity.StockBatch) {
	cp := *b
	s.batches[b.ID] = &cp
}

func (s *memStore) articleStock(id string) int {
	if a, ok := s.articles[id]; ok {
		return a.AvailableStock
	}
	return -1
}

func (s *memStore) batchRemaining(id string) int {
	if b, ok := s.batches[id]; ok {
		return b.RemainingQuantity
	}
	return -1
}

// sumRemaining suma los remanentes de los lotes de un artículo (para verificar
// que el agregado y el libro nunca divergen).
func (s *memStore) sumRemaining(articleID string) int {
	total := 0
	for _, b := range s.batches {
		if b.ArticleID == articleID {
			total += b.RemainingQuantity
		}
	}
	return total
}

// ── fake ArticleRepository ────────────────────────────────────────────────────

type memArticleRepo struct {
	store *memStore
}

var _ repository.ArticleRepository = (*memArticleRepo)(nil)

func (r *memArticleRepo) Create(_ context.Context, a *entity.Article) error {
	r.store.addArticle(a)
	return nil
}

func (r *memArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	a, ok := r.store.articles[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memArticleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Article, error) {
	return r.GetByID(ctx, id)
}

func (r *memArticleRepo) FindByName(_ context.Context, name string) (*entity.Article, error) {
	for _, a := range r.store.articles {
		if a.Name == name {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memArticleRepo) Update(_ context.Context, a *entity.Article) error {
	if _, ok := r.store.articles[a.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	r.store.articles[a.ID] = &cp
	return nil
}

func (r *memArticleRepo) UpdateAvailableStock(_ context.Context, id string, stock int) error {
	a, ok := r.store.articles[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.AvailableStock = stock
	return nil
}

func (r *memArticleRepo) List(_ context.Context, _, _ string, _, _ int) ([]*entity.Article, int, error) {
	var out []*entity.Article
	for _, a := range r.store.articles {
		cp := *a
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memArticleRepo) FindBelowStock(_ context.Context, threshold int) ([]*entity.Article, error) {
	var out []*entity.Article
	for _, a := range r.store.articles {
		if a.AvailableStock <= threshold {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memArticleRepo) FindNearingExpiry(_ context.Context, horizonDays int) ([]*entity.Article, error) {
	today := time.Now().Truncate(24 * time.Hour)
	limit := today.AddDate(0, 0, horizonDays)
	var out []*entity.Article
	for _, a := range r.store.articles {
		if a.ExpiryDate == nil {
			continue
		}
		d := a.ExpiryDate.Truncate(24 * time.Hour)
		if !d.Before(today) && !d.After(limit) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── fake StockBatchRepository ─────────────────────────────────────────────────

type memBatchRepo struct {
	store *memStore
}

var _ repository.StockBatchRepository = (*memBatchRepo)(nil)

func (r *memBatchRepo) Create(_ context.Context, b *entity.StockBatch) error {
	r.store.addBatch(b)
	return nil
}

func (r *memBatchRepo) FindByArticleOrderedByEntryDate(_ context.Context, articleID string) ([]*entity.StockBatch, error) {
	var out []*entity.StockBatch
	for _, b := range r.store.batches {
		if b.ArticleID == articleID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].EntryDate.Before(out[j].EntryDate)
	})
	return out, nil
}

func (r *memBatchRepo) UpdateRemaining(_ context.Context, b *entity.StockBatch) error {
	stored, ok := r.store.batches[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.RemainingQuantity = b.RemainingQuantity
	stored.Status = b.Status
	stored.UpdatedAt = b.UpdatedAt
	return nil
}

// ── fake TxRunner ─────────────────────────────────────────────────────────────

// memTxRunner serializa las transacciones con el mutex del store. failures > 0
// hace fallar los primeros N Run con ErrConflict, para ejercitar el reintento.
type memTxRunner struct {
	store    *memStore
	failures int
	runs     int
}

func (tr *memTxRunner) Run(_ context.Context, fn func(
	articleRepo repository.ArticleRepository,
	batchRepo repository.StockBatchRepository,
) error) error {
	tr.store.mu.Lock()
	defer tr.store.mu.Unlock()
	tr.runs++
	if tr.failures > 0 {
		tr.failures--
		return domain.ErrConflict
	}
	return fn(&memArticleRepo{store: tr.store}, &memBatchRepo{store: tr.store})
}

// ── fake Notifier ─────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string // IDs de artículo notificados
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, a *entity.Article) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, a.ID)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}
