package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// CreateSaleUseCase registra ventas multi-línea consumiendo stock vía el motor FIFO
// dentro de una sola transacción: si una línea no alcanza, la venta completa se
// revierte (ErrInsufficientStock).
type CreateSaleUseCase struct {
	txRunner    SaleTxRunner
	articleRepo repository.ArticleRepository
	saleRepo    repository.SaleRepository
	allocate    *stock.AllocateUseCase
}

// NewCreateSaleUseCase construye el caso de uso. articleRepo y saleRepo van atados
// al pool (lecturas fuera de tx); las escrituras pasan por el SaleTxRunner.
func NewCreateSaleUseCase(
	txRunner SaleTxRunner,
	articleRepo repository.ArticleRepository,
	saleRepo repository.SaleRepository,
	allocate *stock.AllocateUseCase,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{txRunner: txRunner, articleRepo: articleRepo, saleRepo: saleRepo, allocate: allocate}
}

type validLine struct {
	article  *entity.Article
	quantity int
}

// CreateSale valida las líneas (descarta las inválidas en silencio),
// calcula el total con el precio de venta vigente y confirma venta + detalles +
// consumo FIFO en una transacción. Tras el commit revisa el umbral reactivo de
// stock bajo por cada artículo tocado.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Articles) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var lines []validLine
	total := decimal.Zero
	for _, l := range in.Articles {
		if l.Quantity < 1 {
			continue
		}
		article, err := uc.articleRepo.GetByID(ctx, l.ArticleID)
		if err != nil {
			return nil, err
		}
		if article == nil {
			continue
		}
		lines = append(lines, validLine{article: article, quantity: l.Quantity})
		total = total.Add(article.SalePrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		CustomerID: in.CustomerID,
		UserID:     userID,
		TotalValue: total,
		CreatedAt:  now,
	}

	var (
		details []*entity.SaleDetail
		touched []*entity.Article
	)
	err := uc.txRunner.RunSale(ctx, func(
		articleRepo repository.ArticleRepository,
		batchRepo repository.StockBatchRepository,
		saleRepo repository.SaleRepository,
	) error {
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		for _, l := range lines {
			updated, err := uc.allocate.AllocateInTx(ctx, articleRepo, batchRepo, l.article.ID, l.quantity)
			if err != nil {
				return err
			}
			detail := &entity.SaleDetail{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ArticleID: l.article.ID,
				Quantity:  l.quantity,
				UnitPrice: l.article.SalePrice,
				LineTotal: l.article.SalePrice.Mul(decimal.NewFromInt(int64(l.quantity))),
			}
			if err := saleRepo.CreateDetail(ctx, detail); err != nil {
				return err
			}
			details = append(details, detail)
			touched = append(touched, updated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, a := range touched {
		uc.allocate.NotifyIfLow(ctx, a)
	}
	return toSaleResponse(sale, details), nil
}

// GetByID devuelve la venta con sus detalles; nil si no existe.
func (uc *CreateSaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	details, err := uc.saleRepo.ListDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, details), nil
}

// List pagina las ventas (sin detalles).
func (uc *CreateSaleUseCase) List(ctx context.Context, limit, offset int) (*dto.SaleListResponse, error) {
	sales, totalRecords, err := uc.saleRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		items = append(items, *toSaleResponse(s, nil))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: totalRecords},
	}, nil
}

func toSaleResponse(s *entity.Sale, details []*entity.SaleDetail) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:         s.ID,
		CustomerID: s.CustomerID,
		UserID:     s.UserID,
		TotalValue: s.TotalValue,
		CreatedAt:  s.CreatedAt,
	}
	for _, d := range details {
		resp.Details = append(resp.Details, dto.SaleDetailResponse{
			ID:        d.ID,
			ArticleID: d.ArticleID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			LineTotal: d.LineTotal,
		})
	}
	return resp
}
