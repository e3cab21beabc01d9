package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/notification"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// NotificationHandler maneja las alertas de stock bajo y vencimiento (protegido).
type NotificationHandler struct {
	uc *notification.NotificationUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notification.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// ListUnread godoc
// @Summary      Listar notificaciones no leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        kind  query  string  false  "Filtrar por tipo: LOW_STOCK | NEAR_EXPIRY"
// @Success      200   {array}   dto.NotificationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/notifications/unread [get]
func (h *NotificationHandler) ListUnread(c *fiber.Ctx) error {
	var kind *entity.NotificationKind
	if raw := c.Query("kind"); raw != "" {
		k := entity.NotificationKind(raw)
		kind = &k
	}
	list, err := h.uc.ListUnread(c.Context(), kind)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNotificationResponse(n))
	}
	return c.JSON(out)
}

// Acknowledge godoc
// @Summary      Marcar notificación como leída
// @Description  Idempotente: acusar una ya leída responde 200 sin cambios.
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la notificación"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) Acknowledge(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Acknowledge(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "notificación no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "notificación leída"})
}

// AcknowledgeByName godoc
// @Summary      Marcar leídas por nombre de artículo
// @Description  Compatibilidad con el flujo de vencimientos: acusa todas las no
//
//	leídas del artículo indicado por nombre.
//
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AcknowledgeByNameRequest  true  "name"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/notifications/read-by-name [post]
func (h *NotificationHandler) AcknowledgeByName(c *fiber.Ctx) error {
	var in dto.AcknowledgeByNameRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.AcknowledgeByArticleName(c.Context(), in.Name); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sin notificaciones pendientes para ese artículo"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "notificaciones leídas"})
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:          n.ID,
		ArticleID:   n.ArticleID,
		Kind:        string(n.Kind),
		ArticleName: n.ArticleName,
		Message:     n.Message,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}
