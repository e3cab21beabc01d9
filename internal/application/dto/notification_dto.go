package dto

import "time"

// NotificationResponse representación de salida de una notificación.
type NotificationResponse struct {
	ID          string    `json:"id"`
	ArticleID   string    `json:"article_id"`
	Kind        string    `json:"kind"`
	ArticleName string    `json:"article_name"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// AcknowledgeByNameRequest acuse por nombre de artículo (flujo de vencimientos).
type AcknowledgeByNameRequest struct {
	Name string `json:"name"`
}
