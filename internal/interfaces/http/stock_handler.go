package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// StockHandler maneja asignaciones FIFO, entradas de lote y la vista del libro (protegido).
type StockHandler struct {
	allocate *stock.AllocateUseCase
	entry    *stock.RegisterEntryUseCase
	ledger   *stock.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(allocate *stock.AllocateUseCase, entry *stock.RegisterEntryUseCase, ledger *stock.LedgerUseCase) *StockHandler {
	return &StockHandler{allocate: allocate, entry: entry, ledger: ledger}
}

// Sell godoc
// @Summary      Vender stock de un artículo (consumo FIFO)
// @Description  Descuenta la cantidad de los lotes más antiguos. Todo-o-nada: si el
//
//	total disponible no alcanza responde 409 sin mutar nada.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SellStockRequest  true  "article_id, quantity"
// @Success      200   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/sell [post]
func (h *StockHandler) Sell(c *fiber.Ctx) error {
	var in dto.SellStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.allocate.Allocate(c.Context(), in.ArticleID, in.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "article_id y quantity > 0 son requeridos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
		}
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if !result.Fulfilled {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	}
	return c.JSON(dto.AllocationResponse{Fulfilled: result.Fulfilled, UnitsSold: result.UnitsSold})
}

// RegisterEntry godoc
// @Summary      Registrar entrada de stock (lote nuevo)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterEntryRequest  true  "article_id, quantity, entry_date, batch_label, precios"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/entries [post]
func (h *StockHandler) RegisterEntry(c *fiber.Ctx) error {
	var in dto.RegisterEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := stock.EntryInput{
		ArticleID:     in.ArticleID,
		Quantity:      in.Quantity,
		BatchLabel:    in.BatchLabel,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		Weight:        in.Weight,
	}
	if in.EntryDate != nil {
		input.EntryDate = *in.EntryDate
	}
	batch, err := h.entry.RegisterEntry(c.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "article_id y quantity > 0 son requeridos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BatchResponse{
		ID:                batch.ID,
		ArticleID:         batch.ArticleID,
		EntryDate:         batch.EntryDate,
		OriginalQuantity:  batch.OriginalQuantity,
		RemainingQuantity: batch.RemainingQuantity,
		BatchLabel:        batch.BatchLabel,
		Status:            batch.Status,
		PurchasePrice:     batch.PurchasePrice,
		SalePrice:         batch.SalePrice,
		Weight:            batch.Weight,
	})
}

// Batches godoc
// @Summary      Lotes de un artículo en orden FIFO
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {array}   dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id}/batches [get]
func (h *StockHandler) Batches(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	batches, err := h.ledger.BatchesForArticle(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, dto.BatchResponse{
			ID:                b.ID,
			ArticleID:         b.ArticleID,
			EntryDate:         b.EntryDate,
			OriginalQuantity:  b.OriginalQuantity,
			RemainingQuantity: b.RemainingQuantity,
			BatchLabel:        b.BatchLabel,
			Status:            b.Status,
			PurchasePrice:     b.PurchasePrice,
			SalePrice:         b.SalePrice,
			Weight:            b.Weight,
		})
	}
	return c.JSON(out)
}
