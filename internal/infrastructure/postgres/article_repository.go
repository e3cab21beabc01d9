package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/textnorm"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

const articleColumns = `id, name, brand, available_stock, purchase_price, sale_price, weight, expiry_date, provider_id, category_id, created_at, updated_at`

// ArticleRepo implementación de ArticleRepository sobre PostgreSQL (usable con pool o tx).
// La columna name_normalized (minúsculas, sin tildes) respalda la búsqueda por criterio.
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

// Create persiste un artículo nuevo.
func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	query := `
		INSERT INTO articles (id, name, name_normalized, brand, available_stock, purchase_price, sale_price, weight, expiry_date, provider_id, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Name, textnorm.Normalize(a.Name), a.Brand, a.AvailableStock,
		a.PurchasePrice, a.SalePrice, a.Weight, a.ExpiryDate, a.ProviderID, a.CategoryID,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return mapStorageErr("insert article", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID; nil si no existe.
func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get article")
}

// GetForUpdate obtiene el artículo y bloquea su fila (SELECT FOR UPDATE):
// serializa lecturas-y-escrituras concurrentes sobre el mismo artículo.
func (r *ArticleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get article for update")
}

// FindByName obtiene un artículo por nombre exacto (case-insensitive); nil si no existe.
func (r *ArticleRepo) FindByName(ctx context.Context, name string) (*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE lower(name) = lower($1)`
	return r.scanOne(r.q.QueryRow(ctx, query, name), "find article by name")
}

// Update actualiza los datos descriptivos. No toca available_stock (lo mantiene el
// motor de asignación vía UpdateAvailableStock).
func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	query := `
		UPDATE articles
		SET name = $2, name_normalized = $3, brand = $4, purchase_price = $5, sale_price = $6,
		    weight = $7, expiry_date = $8, provider_id = $9, category_id = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Name, textnorm.Normalize(a.Name), a.Brand, a.PurchasePrice, a.SalePrice,
		a.Weight, a.ExpiryDate, a.ProviderID, a.CategoryID, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return mapStorageErr("update article", err)
	}
	return nil
}

// UpdateAvailableStock persiste solo el contador agregado.
func (r *ArticleRepo) UpdateAvailableStock(ctx context.Context, id string, stock int) error {
	query := `UPDATE articles SET available_stock = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, stock)
	if err != nil {
		return mapStorageErr("update available stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List pagina artículos con criterio de búsqueda insensible a acentos sobre
// name_normalized/brand y filtro opcional por proveedor. Orden: created_at descendente.
func (r *ArticleRepo) List(ctx context.Context, providerID, criteria string, limit, offset int) ([]*entity.Article, int, error) {
	where := `WHERE ($1 = '' OR provider_id = $1)
		AND ($2 = '' OR name_normalized LIKE '%' || $2 || '%' OR lower(brand) LIKE '%' || $2 || '%')`
	norm := textnorm.Normalize(criteria)

	var total int
	countQuery := `SELECT count(*) FROM articles ` + where
	if err := r.q.QueryRow(ctx, countQuery, providerID, norm).Scan(&total); err != nil {
		return nil, 0, mapStorageErr("count articles", err)
	}

	query := `SELECT ` + articleColumns + ` FROM articles ` + where + `
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, providerID, norm, limit, offset)
	if err != nil {
		return nil, 0, mapStorageErr("list articles", err)
	}
	defer rows.Close()

	list, err := scanArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// FindBelowStock devuelve artículos con available_stock <= threshold, los más
// críticos primero.
func (r *ArticleRepo) FindBelowStock(ctx context.Context, threshold int) ([]*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles
		WHERE available_stock <= $1
		ORDER BY available_stock ASC, created_at ASC`
	rows, err := r.q.Query(ctx, query, threshold)
	if err != nil {
		return nil, mapStorageErr("find articles below stock", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// FindNearingExpiry devuelve artículos con expiry_date en [hoy, hoy + horizonDays],
// inclusivo en ambos extremos; los ya vencidos quedan fuera.
func (r *ArticleRepo) FindNearingExpiry(ctx context.Context, horizonDays int) ([]*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles
		WHERE expiry_date IS NOT NULL
		  AND expiry_date::date >= CURRENT_DATE
		  AND expiry_date::date <= CURRENT_DATE + $1
		ORDER BY expiry_date ASC`
	rows, err := r.q.Query(ctx, query, horizonDays)
	if err != nil {
		return nil, mapStorageErr("find articles nearing expiry", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

func (r *ArticleRepo) scanOne(row pgx.Row, op string) (*entity.Article, error) {
	var a entity.Article
	err := row.Scan(
		&a.ID, &a.Name, &a.Brand, &a.AvailableStock, &a.PurchasePrice, &a.SalePrice,
		&a.Weight, &a.ExpiryDate, &a.ProviderID, &a.CategoryID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &a, nil
}

func scanArticles(rows pgx.Rows) ([]*entity.Article, error) {
	var list []*entity.Article
	for rows.Next() {
		var a entity.Article
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Brand, &a.AvailableStock, &a.PurchasePrice, &a.SalePrice,
			&a.Weight, &a.ExpiryDate, &a.ProviderID, &a.CategoryID, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		list = append(list, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return list, nil
}
