package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación de NotificationRepository sobre PostgreSQL.
// La deduplicación se apoya en el índice único parcial:
//
//	CREATE UNIQUE INDEX ux_notifications_unread
//	    ON notifications (article_id, kind) WHERE NOT is_read;
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// CreateIfAbsent inserta solo si no hay una no-leída para (article_id, kind), en un
// único statement (INSERT ... WHERE NOT EXISTS). Una carrera que viole el índice
// único degrada a devolver el id del ganador.
func (r *NotificationRepo) CreateIfAbsent(ctx context.Context, n *entity.Notification) (string, bool, error) {
	query := `
		INSERT INTO notifications (id, article_id, kind, article_name, message, is_read, created_at)
		SELECT $1, $2, $3, $4, $5, false, $6
		WHERE NOT EXISTS (
			SELECT 1 FROM notifications WHERE article_id = $2 AND kind = $3 AND NOT is_read
		)
		RETURNING id`
	var id string
	err := r.q.QueryRow(ctx, query, n.ID, n.ArticleID, string(n.Kind), n.ArticleName, n.Message, n.CreatedAt).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
		// Ya existe una no-leída: devolver la vigente.
		existing, lookupErr := r.findUnreadID(ctx, n.ArticleID, n.Kind)
		if lookupErr != nil {
			return "", false, lookupErr
		}
		return existing, false, nil
	}
	return "", false, mapStorageErr("insert notification", err)
}

func (r *NotificationRepo) findUnreadID(ctx context.Context, articleID string, kind entity.NotificationKind) (string, error) {
	query := `
		SELECT id FROM notifications
		WHERE article_id = $1 AND kind = $2 AND NOT is_read
		ORDER BY created_at DESC LIMIT 1`
	var id string
	if err := r.q.QueryRow(ctx, query, articleID, string(kind)).Scan(&id); err != nil {
		return "", mapStorageErr("find unread notification", err)
	}
	return id, nil
}

// GetByID obtiene una notificación por ID; nil si no existe.
func (r *NotificationRepo) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	query := `
		SELECT id, article_id, kind, article_name, message, is_read, created_at
		FROM notifications WHERE id = $1`
	var n entity.Notification
	err := r.q.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.ArticleID, &n.Kind, &n.ArticleName, &n.Message, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapStorageErr("get notification", err)
	}
	return &n, nil
}

// ListUnread devuelve las no leídas en orden created_at descendente; kind nil = todas.
func (r *NotificationRepo) ListUnread(ctx context.Context, kind *entity.NotificationKind) ([]*entity.Notification, error) {
	query := `
		SELECT id, article_id, kind, article_name, message, is_read, created_at
		FROM notifications
		WHERE NOT is_read AND ($1 = '' OR kind = $1)
		ORDER BY created_at DESC`
	filter := ""
	if kind != nil {
		filter = string(*kind)
	}
	rows, err := r.q.Query(ctx, query, filter)
	if err != nil {
		return nil, mapStorageErr("list unread notifications", err)
	}
	defer rows.Close()

	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.ArticleID, &n.Kind, &n.ArticleName, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return list, nil
}

// MarkRead marca leída la notificación.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return mapStorageErr("mark notification read", err)
	}
	return nil
}

// MarkReadByArticleName marca leídas todas las no-leídas con ese nombre de artículo.
func (r *NotificationRepo) MarkReadByArticleName(ctx context.Context, name string) (int64, error) {
	query := `UPDATE notifications SET is_read = true WHERE article_name = $1 AND NOT is_read`
	cmd, err := r.q.Exec(ctx, query, name)
	if err != nil {
		return 0, mapStorageErr("mark notifications read by name", err)
	}
	return cmd.RowsAffected(), nil
}
