package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// LowStockMessage texto determinista de la notificación de stock bajo.
func LowStockMessage(articleName string) string {
	return "Stock is getting low for item: " + articleName
}

// NearExpiryMessage texto determinista de la notificación de vencimiento próximo.
func NearExpiryMessage(articleName string, expiry time.Time) string {
	return fmt.Sprintf("Item '%s' is nearing expiry on %s", articleName, expiry.Format("2006-01-02"))
}

// NotificationUseCase almacén de notificaciones con deduplicación: a lo sumo una
// NO leída por (artículo, kind). Gana el primer mensaje hasta que se acusa recibo;
// acusada, una nueva ocurrencia de la condición vuelve a crear.
type NotificationUseCase struct {
	repo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// Upsert crea la notificación si no hay una no-leída vigente para (articleID, kind);
// si la hay, devuelve su id sin tocar el mensaje. La atomicidad del chequeo+inserción
// la garantiza el repositorio (índice único parcial), no este nivel.
func (uc *NotificationUseCase) Upsert(ctx context.Context, articleID string, kind entity.NotificationKind, articleName, message string) (string, error) {
	if articleID == "" || !kind.Valid() {
		return "", domain.ErrInvalidInput
	}
	n := &entity.Notification{
		ID:          uuid.New().String(),
		ArticleID:   articleID,
		Kind:        kind,
		ArticleName: articleName,
		Message:     message,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
	id, _, err := uc.repo.CreateIfAbsent(ctx, n)
	if err != nil {
		return "", err
	}
	return id, nil
}

// NotifyLowStock implementa stock.Notifier: upsert de stock bajo para el artículo.
func (uc *NotificationUseCase) NotifyLowStock(ctx context.Context, article *entity.Article) error {
	_, err := uc.Upsert(ctx, article.ID, entity.KindLowStock, article.Name, LowStockMessage(article.Name))
	return err
}

// NotifyNearExpiry upsert de vencimiento próximo para el artículo (requiere ExpiryDate).
func (uc *NotificationUseCase) NotifyNearExpiry(ctx context.Context, article *entity.Article) error {
	if article.ExpiryDate == nil {
		return domain.ErrInvalidInput
	}
	_, err := uc.Upsert(ctx, article.ID, entity.KindNearExpiry, article.Name, NearExpiryMessage(article.Name, *article.ExpiryDate))
	return err
}

// ListUnread devuelve las no leídas en orden created_at descendente; kind nil = todas.
func (uc *NotificationUseCase) ListUnread(ctx context.Context, kind *entity.NotificationKind) ([]*entity.Notification, error) {
	if kind != nil && !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.ListUnread(ctx, kind)
}

// Acknowledge marca leída una notificación por id. Acusar una ya leída es no-op
// exitoso (idempotente); un id desconocido es ErrNotFound.
func (uc *NotificationUseCase) Acknowledge(ctx context.Context, id string) error {
	n, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.ErrNotFound
	}
	if n.IsRead {
		return nil
	}
	return uc.repo.MarkRead(ctx, id)
}

// AcknowledgeByArticleName acusa por nombre de artículo en lugar de id, para
// clientes que solo conocen el nombre. Marca leídas todas las no-leídas cuyo
// nombre desnormalizado coincide; ErrNotFound si ninguna coincide.
func (uc *NotificationUseCase) AcknowledgeByArticleName(ctx context.Context, name string) error {
	if name == "" {
		return domain.ErrInvalidInput
	}
	affected, err := uc.repo.MarkReadByArticleName(ctx, name)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
