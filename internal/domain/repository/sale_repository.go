package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas y sus detalles.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateDetail(ctx context.Context, detail *entity.SaleDetail) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	ListDetails(ctx context.Context, saleID string) ([]*entity.SaleDetail, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, int, error)
}
