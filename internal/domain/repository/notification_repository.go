package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// NotificationRepository puerto de persistencia para notificaciones.
type NotificationRepository interface {
	// CreateIfAbsent inserta la notificación solo si no existe ya una NO leída con el
	// mismo (article_id, kind). Devuelve el id vigente y si hubo inserción. El chequeo
	// y la inserción son un solo statement atómico respaldado por un índice único
	// parcial; no es un check-then-insert ingenuo.
	CreateIfAbsent(ctx context.Context, n *entity.Notification) (id string, created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	// ListUnread devuelve las no leídas en orden created_at descendente; kind nil = todas.
	ListUnread(ctx context.Context, kind *entity.NotificationKind) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id string) error
	// MarkReadByArticleName marca leídas todas las no leídas cuyo nombre de artículo
	// desnormalizado coincide. Devuelve cuántas filas tocó.
	MarkReadByArticleName(ctx context.Context, name string) (int64, error)
}
