package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
)

// MovementHandler expone el ciclo de vida de movimientos de inventario.
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        status         query  string  false  "DRAFT | POSTED | CANCELLED"
// @Param        movement_type  query  string  false  "IN | OUT | ADJUST | TRANSFER"
// @Param        page           query  int     false  "página (1-based)"
// @Param        limit          query  int     false  "tamaño de página"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "query inválido")
	}
	resp, err := h.uc.FindAll(q)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Obtener movimiento con items
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "movement id"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.FindByID(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}

// Create godoc
// @Summary      Crear movimiento en DRAFT con sus items
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "tipo, referencia e items"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	resp, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Update godoc
// @Summary      Actualizar cabecera de un movimiento DRAFT
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "movement id"
// @Param        body  body  dto.UpdateMovementRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	resp, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary      Eliminar un movimiento DRAFT
// @Tags         movements
// @Security     Bearer
// @Param        id  path  string  true  "movement id"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddItem godoc
// @Summary      Agregar item a un movimiento DRAFT
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "movement id"
// @Param        body  body  dto.CreateMovementItemRequest  true  "producto y cantidad"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/items [post]
func (h *MovementHandler) AddItem(c *fiber.Ctx) error {
	var in dto.CreateMovementItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	resp, err := h.uc.AddItem(c.Params("id"), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// RemoveItem godoc
// @Summary      Quitar item de un movimiento DRAFT
// @Tags         movements
// @Security     Bearer
// @Param        itemId  path  string  true  "item id"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/items/{itemId} [delete]
func (h *MovementHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.uc.RemoveItem(c.Params("itemId")); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Post godoc
// @Summary      Confirmar movimiento (aplica deltas de stock atómicamente)
// @Description  Bloquea los productos involucrados, valida que ningún stock
// @Description  resultante sea negativo y aplica todos los deltas en una sola
// @Description  transacción. STOCK_UNDERFLOW incluye el detalle del producto.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "movement id"
// @Success      200  {object}  dto.MovementResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/post [post]
func (h *MovementHandler) Post(c *fiber.Ctx) error {
	resp, err := h.uc.Post(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}

// Cancel godoc
// @Summary      Cancelar movimiento DRAFT (sin efecto en stock)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "movement id"
// @Success      200  {object}  dto.MovementResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/cancel [post]
func (h *MovementHandler) Cancel(c *fiber.Ctx) error {
	resp, err := h.uc.Cancel(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}
