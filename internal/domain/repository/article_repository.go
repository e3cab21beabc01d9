package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ArticleRepository puerto de persistencia para artículos.
// GetForUpdate bloquea la fila (SELECT FOR UPDATE): serializa las asignaciones
// concurrentes sobre el mismo artículo sin lock global.
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Article, error)
	FindByName(ctx context.Context, name string) (*entity.Article, error)
	Update(ctx context.Context, article *entity.Article) error
	// UpdateAvailableStock persiste solo el contador agregado (lo usa el motor de asignación).
	UpdateAvailableStock(ctx context.Context, id string, stock int) error
	// List pagina con criterio de búsqueda (insensible a acentos) y filtro opcional por proveedor.
	List(ctx context.Context, providerID, criteria string, limit, offset int) ([]*entity.Article, int, error)
	// FindBelowStock devuelve artículos con available_stock <= threshold.
	FindBelowStock(ctx context.Context, threshold int) ([]*entity.Article, error)
	// FindNearingExpiry devuelve artículos con expiry_date dentro de [hoy, hoy+horizonDays],
	// excluyendo los ya vencidos y los que no vencen.
	FindNearingExpiry(ctx context.Context, horizonDays int) ([]*entity.Article, error)
}
