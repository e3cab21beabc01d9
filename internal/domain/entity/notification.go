package entity

import "time"

// NotificationKind discrimina el tipo de condición que originó la notificación.
// Antes se infería por el contenido del campo name; el enum explícito hace
// verificable la regla "a lo sumo una no-leída por (artículo, kind)".
type NotificationKind string

const (
	KindLowStock   NotificationKind = "LOW_STOCK"
	KindNearExpiry NotificationKind = "NEAR_EXPIRY"
)

// Valid indica si el kind es uno de los conocidos.
func (k NotificationKind) Valid() bool {
	return k == KindLowStock || k == KindNearExpiry
}

// Notification registro durable de una condición de inventario pendiente de atender.
// ArticleName se desnormaliza para permitir el acuse por nombre.
type Notification struct {
	ID          string
	ArticleID   string
	Kind        NotificationKind
	ArticleName string
	Message     string
	IsRead      bool
	CreatedAt   time.Time
}
