package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// MovementUseCase implementa el ciclo de vida de los movimientos de
// inventario: creación y mutación de borradores, cancelación y la
// contabilización transaccional (ver post.go).
//
// Máquina de estados: DRAFT -> POSTED (contabiliza stock) o
// DRAFT -> CANCELLED (sin efecto en stock); cualquier otra transición se
// rechaza con domain.ErrInvalidStateTransition.
type MovementUseCase struct {
	txRunner    TxRunner
	movRepo     repository.InventoryMovementRepository
	productRepo repository.ProductRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:    txRunner,
		movRepo:     movRepo,
		productRepo: productRepo,
	}
}

// FindAll lista movimientos con filtros de estado y tipo, paginado.
func (uc *MovementUseCase) FindAll(q dto.MovementQuery) (*dto.MovementListResponse, error) {
	q.DefaultPage()
	movements, total, err := uc.movRepo.List(repository.MovementFilter{
		Status:       q.Status,
		MovementType: q.MovementType,
		Limit:        q.Limit,
		Offset:       q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		data = append(data, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Data:       data,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: q.TotalPages(total),
	}, nil
}

// FindByID obtiene un movimiento con sus ítems y productos.
func (uc *MovementUseCase) FindByID(id string) (*dto.MovementResponse, error) {
	movement, err := uc.movRepo.GetByID(id, true)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	return toMovementResponse(movement), nil
}

// Create crea un movimiento en DRAFT con sus ítems validados. No tiene
// ningún efecto sobre el stock: eso ocurre únicamente al contabilizar.
func (uc *MovementUseCase) Create(ctx context.Context, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	// Resolver todos los productos referenciados en un solo fetch (sin lock).
	ids := distinctProductIDs(in.Items)
	products, err := uc.productRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	now := time.Now()
	movement := &entity.InventoryMovement{
		ID:           uuid.New().String(),
		MovementType: in.MovementType,
		Status:       entity.MovementStatusDraft,
		Reference:    in.Reference,
		Notes:        in.Notes,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, it := range in.Items {
		product, ok := byID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		if err := validateItem(movement.MovementType, product, it); err != nil {
			return nil, err
		}
		movement.Items = append(movement.Items, &entity.MovementItem{
			ID:            uuid.New().String(),
			MovementID:    movement.ID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			UnitOfMeasure: it.UnitOfMeasure,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	// Cabecera e ítems se insertan en la misma transacción.
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		_ repository.ProductRepository,
	) error {
		return movRepo.Create(movement)
	})
	if err != nil {
		return nil, err
	}
	return uc.FindByID(movement.ID)
}

// Update modifica la cabecera de un borrador (tipo, referencia, notas).
// Cambiar el tipo re-aplica la regla de signo sobre los ítems existentes: un
// ítem con cantidad negativa solo es legal mientras el movimiento sea ADJUST.
func (uc *MovementUseCase) Update(id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	movement, err := uc.movRepo.GetByID(id, true)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	if !movement.IsDraft() {
		return nil, fmt.Errorf("%w: no se puede actualizar un movimiento %s", domain.ErrInvalidStateTransition, movement.Status)
	}
	if in.MovementType != nil && *in.MovementType != movement.MovementType {
		for _, it := range movement.Items {
			if !entity.ValidItemQuantity(*in.MovementType, it.Quantity) {
				return nil, fmt.Errorf("%w: el ítem con cantidad %d impide cambiar el tipo a %s",
					domain.ErrInvalidInput, it.Quantity, *in.MovementType)
			}
		}
		movement.MovementType = *in.MovementType
	}
	if in.Reference != nil {
		movement.Reference = *in.Reference
	}
	if in.Notes != nil {
		movement.Notes = *in.Notes
	}
	movement.UpdatedAt = time.Now()
	if err := uc.movRepo.UpdateHeader(movement); err != nil {
		return nil, err
	}
	return uc.FindByID(id)
}

// Delete elimina un borrador junto con sus ítems (cascada).
func (uc *MovementUseCase) Delete(id string) error {
	movement, err := uc.movRepo.GetByID(id, false)
	if err != nil {
		return err
	}
	if movement == nil {
		return domain.ErrNotFound
	}
	if !movement.IsDraft() {
		return fmt.Errorf("%w: no se puede eliminar un movimiento %s", domain.ErrInvalidStateTransition, movement.Status)
	}
	return uc.movRepo.Delete(id)
}

// AddItem agrega un ítem a un borrador, revalidando producto y unidad de
// medida exactamente igual que en Create.
func (uc *MovementUseCase) AddItem(movementID string, in dto.CreateMovementItemRequest) (*dto.MovementResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	movement, err := uc.movRepo.GetByID(movementID, false)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	if !movement.IsDraft() {
		return nil, fmt.Errorf("%w: no se pueden agregar ítems a un movimiento %s", domain.ErrInvalidStateTransition, movement.Status)
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	if err := validateItem(movement.MovementType, product, in); err != nil {
		return nil, err
	}
	now := time.Now()
	item := &entity.MovementItem{
		ID:            uuid.New().String(),
		MovementID:    movement.ID,
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		UnitOfMeasure: in.UnitOfMeasure,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.movRepo.AddItem(item); err != nil {
		return nil, err
	}
	return uc.FindByID(movementID)
}

// RemoveItem quita un ítem de un borrador.
func (uc *MovementUseCase) RemoveItem(itemID string) error {
	item, err := uc.movRepo.GetItemByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
	}
	movement, err := uc.movRepo.GetByID(item.MovementID, false)
	if err != nil {
		return err
	}
	if movement == nil {
		return domain.ErrNotFound
	}
	if !movement.IsDraft() {
		return fmt.Errorf("%w: no se pueden quitar ítems de un movimiento %s", domain.ErrInvalidStateTransition, movement.Status)
	}
	return uc.movRepo.RemoveItem(itemID)
}

// Cancel cancela un borrador. Sin efecto en stock: los borradores nunca lo
// mutaron. CANCELLED es terminal.
func (uc *MovementUseCase) Cancel(id string) (*dto.MovementResponse, error) {
	movement, err := uc.movRepo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	if !movement.IsDraft() {
		return nil, fmt.Errorf("%w: solo los borradores se pueden cancelar", domain.ErrInvalidStateTransition)
	}
	if err := uc.movRepo.UpdateStatus(id, entity.MovementStatusCancelled, nil); err != nil {
		return nil, err
	}
	return uc.FindByID(id)
}

// validateItem aplica la regla de signo por tipo y el calce de unidad de
// medida contra el maestro del producto.
func validateItem(movementType string, product *entity.Product, in dto.CreateMovementItemRequest) error {
	if !entity.ValidItemQuantity(movementType, in.Quantity) {
		return fmt.Errorf("%w: cantidad %d inválida para tipo %s", domain.ErrInvalidInput, in.Quantity, movementType)
	}
	if product.UnitOfMeasure != in.UnitOfMeasure {
		return fmt.Errorf("%w: producto %s espera %s, recibió %s",
			domain.ErrUnitMismatch, product.SKU, product.UnitOfMeasure, in.UnitOfMeasure)
	}
	return nil
}

// distinctProductIDs devuelve el conjunto de productos referenciados (un
// movimiento puede repetir producto en varios ítems).
func distinctProductIDs(items []dto.CreateMovementItemRequest) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

func toMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	resp := &dto.MovementResponse{
		ID:           m.ID,
		MovementType: m.MovementType,
		Status:       m.Status,
		Reference:    m.Reference,
		Notes:        m.Notes,
		CreatedBy:    m.CreatedBy,
		CreatorName:  m.CreatorName,
		PostedAt:     m.PostedAt,
		Items:        make([]dto.MovementItemResponse, 0, len(m.Items)),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for _, it := range m.Items {
		itemResp := dto.MovementItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			UnitOfMeasure: it.UnitOfMeasure,
			CreatedAt:     it.CreatedAt,
		}
		if it.Product != nil {
			itemResp.Product = toProductResponse(it.Product)
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		UnitOfMeasure: p.UnitOfMeasure,
		IsActive:      p.IsActive,
		Stock:         p.Stock,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
