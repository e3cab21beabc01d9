package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de una venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, customer_id, user_id, total_value, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, s.ID, s.CustomerID, s.UserID, s.TotalValue, s.CreatedAt)
	if err != nil {
		return mapStorageErr("insert sale", err)
	}
	return nil
}

// CreateDetail persiste una línea de venta.
func (r *SaleRepo) CreateDetail(ctx context.Context, d *entity.SaleDetail) error {
	query := `
		INSERT INTO sale_details (id, sale_id, article_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, d.ID, d.SaleID, d.ArticleID, d.Quantity, d.UnitPrice, d.LineTotal)
	if err != nil {
		return mapStorageErr("insert sale detail", err)
	}
	return nil
}

// GetByID obtiene una venta por ID; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `SELECT id, customer_id, user_id, total_value, created_at FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.CustomerID, &s.UserID, &s.TotalValue, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapStorageErr("get sale", err)
	}
	return &s, nil
}

// ListDetails devuelve las líneas de una venta.
func (r *SaleRepo) ListDetails(ctx context.Context, saleID string) ([]*entity.SaleDetail, error) {
	query := `
		SELECT id, sale_id, article_id, quantity, unit_price, line_total
		FROM sale_details WHERE sale_id = $1`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, mapStorageErr("list sale details", err)
	}
	defer rows.Close()

	var list []*entity.SaleDetail
	for rows.Next() {
		var d entity.SaleDetail
		if err := rows.Scan(&d.ID, &d.SaleID, &d.ArticleID, &d.Quantity, &d.UnitPrice, &d.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale detail: %w", err)
		}
		list = append(list, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale details: %w", err)
	}
	return list, nil
}

// List pagina ventas, las más recientes primero.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sales`).Scan(&total); err != nil {
		return nil, 0, mapStorageErr("count sales", err)
	}

	query := `
		SELECT id, customer_id, user_id, total_value, created_at
		FROM sales ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, mapStorageErr("list sales", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.UserID, &s.TotalValue, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate sales: %w", err)
	}
	return list, total, nil
}
