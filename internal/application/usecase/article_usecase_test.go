package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

type fakeArticleRepo struct {
	items map[string]*entity.Article
}

var _ repository.ArticleRepository = (*fakeArticleRepo)(nil)

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{items: make(map[string]*entity.Article)}
}

func (r *fakeArticleRepo) Create(_ context.Context, a *entity.Article) error {
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeArticleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Article, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeArticleRepo) FindByName(_ context.Context, name string) (*entity.Article, error) {
	for _, a := range r.items {
		if a.Name == name {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeArticleRepo) Update(_ context.Context, a *entity.Article) error {
	if _, ok := r.items[a.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeArticleRepo) UpdateAvailableStock(_ context.Context, id string, stock int) error {
	a, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.AvailableStock = stock
	return nil
}

func (r *fakeArticleRepo) List(_ context.Context, providerID, criteria string, _, _ int) ([]*entity.Article, int, error) {
	var out []*entity.Article
	for _, a := range r.items {
		if providerID != "" && a.ProviderID != providerID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeArticleRepo) FindBelowStock(context.Context, int) ([]*entity.Article, error) {
	return nil, nil
}

func (r *fakeArticleRepo) FindNearingExpiry(context.Context, int) ([]*entity.Article, error) {
	return nil, nil
}

type fakeNotifier struct {
	calls int
}

func (n *fakeNotifier) NotifyLowStock(context.Context, *entity.Article) error {
	n.calls++
	return nil
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestArticleCreate_StockInicialCero(t *testing.T) {
	repo := newFakeArticleRepo()
	uc := usecase.NewArticleUseCase(repo, nil, 0)

	out, err := uc.Create(context.Background(), dto.CreateArticleRequest{
		Name:      "Café molido",
		Brand:     "Montaña",
		SalePrice: decimal.NewFromInt(12000),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, 0, out.AvailableStock, "el stock entra por lotes, nunca en el alta")
}

func TestArticleCreate_NombreDuplicado(t *testing.T) {
	repo := newFakeArticleRepo()
	uc := usecase.NewArticleUseCase(repo, nil, 0)

	_, err := uc.Create(context.Background(), dto.CreateArticleRequest{Name: "Café molido"})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), dto.CreateArticleRequest{Name: "Café molido"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestArticleCreate_SinNombre(t *testing.T) {
	uc := usecase.NewArticleUseCase(newFakeArticleRepo(), nil, 0)
	_, err := uc.Create(context.Background(), dto.CreateArticleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestArticleUpdate_ParcialNoTocaStock(t *testing.T) {
	repo := newFakeArticleRepo()
	uc := usecase.NewArticleUseCase(repo, nil, 0)

	created, err := uc.Create(context.Background(), dto.CreateArticleRequest{Name: "Café molido"})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateAvailableStock(context.Background(), created.ID, 42))

	brand := "Sierra"
	out, err := uc.Update(context.Background(), created.ID, dto.UpdateArticleRequest{Brand: &brand})
	require.NoError(t, err)
	assert.Equal(t, "Sierra", out.Brand)
	assert.Equal(t, "Café molido", out.Name, "los campos sin puntero no cambian")
	assert.Equal(t, 42, out.AvailableStock, "la actualización descriptiva no toca el agregado")
}

func TestArticleUpdate_RenombreChocaConOtro(t *testing.T) {
	repo := newFakeArticleRepo()
	uc := usecase.NewArticleUseCase(repo, nil, 0)

	_, err := uc.Create(context.Background(), dto.CreateArticleRequest{Name: "Arroz"})
	require.NoError(t, err)
	b, err := uc.Create(context.Background(), dto.CreateArticleRequest{Name: "Azúcar"})
	require.NoError(t, err)

	name := "Arroz"
	_, err = uc.Update(context.Background(), b.ID, dto.UpdateArticleRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestArticleUpdate_NotificaSiStockBajo(t *testing.T) {
	repo := newFakeArticleRepo()
	notifier := &fakeNotifier{}
	uc := usecase.NewArticleUseCase(repo, notifier, 5)

	created, err := uc.Create(context.Background(), dto.CreateArticleRequest{Name: "Sal"})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateAvailableStock(context.Background(), created.ID, 4))

	brand := "Mar"
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateArticleRequest{Brand: &brand})
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls, "editar un artículo con stock en o bajo el umbral re-verifica la alerta")

	// Con stock holgado no hay notificación.
	require.NoError(t, repo.UpdateAvailableStock(context.Background(), created.ID, 50))
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateArticleRequest{Brand: &brand})
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
}

func TestArticleUpdate_Inexistente(t *testing.T) {
	uc := usecase.NewArticleUseCase(newFakeArticleRepo(), nil, 0)
	out, err := uc.Update(context.Background(), "no-existe", dto.UpdateArticleRequest{})
	require.NoError(t, err)
	assert.Nil(t, out, "actualizar un id desconocido devuelve nil, el handler lo traduce a 404")
}

func TestArticleUpdate_ExpiryDate(t *testing.T) {
	repo := newFakeArticleRepo()
	uc := usecase.NewArticleUseCase(repo, nil, 0)

	created, err := uc.Create(context.Background(), dto.CreateArticleRequest{Name: "Yogur"})
	require.NoError(t, err)
	assert.Nil(t, created.ExpiryDate)

	expiry := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	out, err := uc.Update(context.Background(), created.ID, dto.UpdateArticleRequest{ExpiryDate: &expiry})
	require.NoError(t, err)
	require.NotNil(t, out.ExpiryDate)
	assert.True(t, expiry.Equal(*out.ExpiryDate))
}
