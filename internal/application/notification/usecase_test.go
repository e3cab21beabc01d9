package notification_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/notification"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// memNotificationRepo fake en memoria que replica la semántica del índice único
// parcial: a lo sumo una NO leída por (article_id, kind).
type memNotificationRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Notification
}

var _ repository.NotificationRepository = (*memNotificationRepo)(nil)

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{items: make(map[string]*entity.Notification)}
}

func (r *memNotificationRepo) CreateIfAbsent(_ context.Context, n *entity.Notification) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if !existing.IsRead && existing.ArticleID == n.ArticleID && existing.Kind == n.Kind {
			return existing.ID, false, nil
		}
	}
	cp := *n
	r.items[n.ID] = &cp
	return n.ID, true, nil
}

func (r *memNotificationRepo) GetByID(_ context.Context, id string) (*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (r *memNotificationRepo) ListUnread(_ context.Context, kind *entity.NotificationKind) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.items {
		if n.IsRead {
			continue
		}
		if kind != nil && n.Kind != *kind {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (r *memNotificationRepo) MarkReadByArticleName(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for _, n := range r.items {
		if !n.IsRead && n.ArticleName == name {
			n.IsRead = true
			affected++
		}
	}
	return affected, nil
}

func testArticle() *entity.Article {
	return &entity.Article{ID: "art-007", Name: "Aceite de oliva", AvailableStock: 2}
}

// ── Mensajes deterministas ────────────────────────────────────────────────────

func TestMensajesDeterministas(t *testing.T) {
	assert.Equal(t, "Stock is getting low for item: Aceite de oliva",
		notification.LowStockMessage("Aceite de oliva"))

	expiry := time.Date(2026, 9, 5, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, "Item 'Aceite de oliva' is nearing expiry on 2026-09-05",
		notification.NearExpiryMessage("Aceite de oliva", expiry),
		"la fecha va en formato YYYY-MM-DD, sin hora")
}

// ── Deduplicación ─────────────────────────────────────────────────────────────

func TestNotifyLowStock_DeduplicaMientrasNoSeAcusa(t *testing.T) {
	repo := newMemNotificationRepo()
	uc := notification.NewNotificationUseCase(repo)
	art := testArticle()

	require.NoError(t, uc.NotifyLowStock(context.Background(), art))
	require.NoError(t, uc.NotifyLowStock(context.Background(), art))
	require.NoError(t, uc.NotifyLowStock(context.Background(), art))

	unread, err := uc.ListUnread(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, unread, 1, "varias ocurrencias de la misma condición producen una sola no-leída")
	assert.Equal(t, entity.KindLowStock, unread[0].Kind)
	assert.Equal(t, "Stock is getting low for item: Aceite de oliva", unread[0].Message)
}

func TestNotify_KindsIndependientes(t *testing.T) {
	repo := newMemNotificationRepo()
	uc := notification.NewNotificationUseCase(repo)
	art := testArticle()
	expiry := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	art.ExpiryDate = &expiry

	require.NoError(t, uc.NotifyLowStock(context.Background(), art))
	require.NoError(t, uc.NotifyNearExpiry(context.Background(), art))

	unread, err := uc.ListUnread(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, unread, 2, "stock bajo y vencimiento se deduplican por separado")
}

func TestNotifyNearExpiry_SinFechaEsInvalido(t *testing.T) {
	repo := newMemNotificationRepo()
	uc := notification.NewNotificationUseCase(repo)

	err := uc.NotifyNearExpiry(context.Background(), testArticle())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpsert_Validacion(t *testing.T) {
	repo := newMemNotificationRepo()
	uc := notification.NewNotificationUseCase(repo)

	_, err := uc.Upsert(context.Background(), "", entity.KindLowStock, "x", "m")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upsert(context.Background(), "art-1", entity.NotificationKind("OTRO"), "x", "m")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Ciclo de acuse ────────────────────────────────────────────────────────────

func TestAcknowledge_PermiteNuevaNotificacion(t *testing.T) {
	repo := newMemNotificationRepo()
	uc := notification.NewNotificationUseCase(repo)
	art := testArticle()

	require.NoError(t, uc.NotifyLowStock(context.Background(), art))
	unread, _ := uc.ListUnread(context.Background(), nil)
	require.Len(t, unread, 1)

	require.NoError(t, uc.Acknowledge(context.Background(), unread[0].ID))

	unread, _ = uc.ListUnread(context.Background(), nil)
	assert.Empty(t, unread)

	// La condición sigue vigente: una nueva ocurrencia vuelve a crear.
	require.NoError(t, uc.NotifyLowStock(context.Background(), art))
	unread, _ = uc.ListUnread(context.Background(), nil)
	require.Len(t, unread, 1)
	assert.NotEqual(t, "", unread[0].ID)
}

func TestAcknowledge_Idempotente(t *testing.T) {
	repo := newMemNotificationRepo()
	uc := notification.NewNotificationUseCase(repo)

	require.NoError(t, uc.NotifyLowStock(context.Background(), testArticle()))
	unread, _ := uc.ListUnread(context.Background(), nil)
	require.Len(t, unread, 1)

	require.NoError(t, uc.Acknowledge(context.Background(), unread[0].ID))
	assert.NoError(t, uc.Acknowledge(context.Background(), unread[0].ID),
		"acusar dos veces es un no-op exitoso")
}

func TestAcknowledge_IDDesconocido(t *testing.T) {
	repo := newMemNotificationRepo()
	uc := notification.NewNotificationUseCase(repo)

	err := uc.Acknowledge(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAcknowledgeByArticleName(t *testing.T) {
	repo := newMemNotificationRepo()
	uc := notification.NewNotificationUseCase(repo)
	art := testArticle()
	expiry := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	art.ExpiryDate = &expiry

	require.NoError(t, uc.NotifyLowStock(context.Background(), art))
	require.NoError(t, uc.NotifyNearExpiry(context.Background(), art))

	require.NoError(t, uc.AcknowledgeByArticleName(context.Background(), art.Name))

	unread, _ := uc.ListUnread(context.Background(), nil)
	assert.Empty(t, unread, "el acuse por nombre cubre todas las no-leídas del artículo")

	err := uc.AcknowledgeByArticleName(context.Background(), art.Name)
	assert.ErrorIs(t, err, domain.ErrNotFound, "sin pendientes que coincidan es ErrNotFound")

	err = uc.AcknowledgeByArticleName(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Listado ───────────────────────────────────────────────────────────────────

func TestListUnread_FiltraPorKindYOrdena(t *testing.T) {
	repo := newMemNotificationRepo()
	uc := notification.NewNotificationUseCase(repo)

	a1 := &entity.Article{ID: "art-1", Name: "Arroz"}
	a2 := &entity.Article{ID: "art-2", Name: "Lentejas"}
	expiry := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	a2.ExpiryDate = &expiry

	require.NoError(t, uc.NotifyLowStock(context.Background(), a1))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, uc.NotifyNearExpiry(context.Background(), a2))

	all, err := uc.ListUnread(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[0].CreatedAt.Before(all[1].CreatedAt), "orden created_at descendente")

	kind := entity.KindLowStock
	lows, err := uc.ListUnread(context.Background(), &kind)
	require.NoError(t, err)
	require.Len(t, lows, 1)
	assert.Equal(t, "art-1", lows[0].ArticleID)

	bad := entity.NotificationKind("OTRO")
	_, err = uc.ListUnread(context.Background(), &bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
