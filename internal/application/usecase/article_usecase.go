package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ArticleUseCase casos de uso CRUD para artículos. AvailableStock lo mantiene el
// motor de asignación (ventas y entradas); este caso de uso nunca lo toca.
type ArticleUseCase struct {
	repo     repository.ArticleRepository
	notifier stock.Notifier
	trigger  int // umbral reactivo de stock bajo, compartido con el motor
}

// NewArticleUseCase construye el caso de uso. trigger <= 0 aplica el default del motor.
func NewArticleUseCase(repo repository.ArticleRepository, notifier stock.Notifier, trigger int) *ArticleUseCase {
	if trigger <= 0 {
		trigger = stock.DefaultLowStockTrigger
	}
	return &ArticleUseCase{repo: repo, notifier: notifier, trigger: trigger}
}

// Create crea un artículo nuevo con stock en cero. Rechaza nombres duplicados.
func (uc *ArticleUseCase) Create(ctx context.Context, in dto.CreateArticleRequest) (*dto.ArticleResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.FindByName(ctx, in.Name)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	article := &entity.Article{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Brand:          in.Brand,
		AvailableStock: 0,
		PurchasePrice:  in.PurchasePrice,
		SalePrice:      in.SalePrice,
		Weight:         in.Weight,
		ExpiryDate:     in.ExpiryDate,
		ProviderID:     in.ProviderID,
		CategoryID:     in.CategoryID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	return toArticleResponse(article), nil
}

// GetByID obtiene un artículo por ID; nil si no existe.
func (uc *ArticleUseCase) GetByID(ctx context.Context, id string) (*dto.ArticleResponse, error) {
	article, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, nil
	}
	return toArticleResponse(article), nil
}

// Update actualiza los datos descriptivos. Si al renombrar choca con otro artículo
// devuelve ErrDuplicate. Tras actualizar, si el stock vigente está en o bajo el
// umbral reactivo, pide la notificación de stock bajo.
func (uc *ArticleUseCase) Update(ctx context.Context, id string, in dto.UpdateArticleRequest) (*dto.ArticleResponse, error) {
	article, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, nil
	}
	if in.Name != nil && *in.Name != article.Name {
		other, _ := uc.repo.FindByName(ctx, *in.Name)
		if other != nil && other.ID != article.ID {
			return nil, domain.ErrDuplicate
		}
		article.Name = *in.Name
	}
	if in.Brand != nil {
		article.Brand = *in.Brand
	}
	if in.PurchasePrice != nil {
		article.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		article.SalePrice = *in.SalePrice
	}
	if in.Weight != nil {
		article.Weight = *in.Weight
	}
	if in.ExpiryDate != nil {
		article.ExpiryDate = in.ExpiryDate
	}
	if in.ProviderID != nil {
		article.ProviderID = *in.ProviderID
	}
	if in.CategoryID != nil {
		article.CategoryID = *in.CategoryID
	}
	article.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, article); err != nil {
		return nil, err
	}

	if uc.notifier != nil && article.AvailableStock <= uc.trigger {
		_ = uc.notifier.NotifyLowStock(ctx, article)
	}
	return toArticleResponse(article), nil
}

// List pagina artículos con criterio de búsqueda (insensible a acentos) y filtro
// opcional por proveedor.
func (uc *ArticleUseCase) List(ctx context.Context, providerID, criteria string, limit, offset int) (*dto.ArticleListResponse, error) {
	list, total, err := uc.repo.List(ctx, providerID, criteria, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ArticleResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toArticleResponse(a))
	}
	return &dto.ArticleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

func toArticleResponse(a *entity.Article) *dto.ArticleResponse {
	if a == nil {
		return nil
	}
	return &dto.ArticleResponse{
		ID:             a.ID,
		Name:           a.Name,
		Brand:          a.Brand,
		AvailableStock: a.AvailableStock,
		PurchasePrice:  a.PurchasePrice,
		SalePrice:      a.SalePrice,
		Weight:         a.Weight,
		ExpiryDate:     a.ExpiryDate,
		ProviderID:     a.ProviderID,
		CategoryID:     a.CategoryID,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
