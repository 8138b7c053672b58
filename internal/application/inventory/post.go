package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Post contabiliza un movimiento: aplica sus deltas de stock y lo deja en
// POSTED de forma atómica. Todo ocurre en una sola transacción:
//
//  1. Carga el movimiento con ítems dentro de la tx.
//  2. Solo los borradores se contabilizan; con ítems.
//  3. Bloquea el conjunto de productos afectados con FOR UPDATE en un solo
//     lote ordenado por id ascendente (dos contabilizaciones que comparten
//     producto se serializan en ese lock; las disjuntas avanzan en paralelo).
//  4. Acumula los deltas firmados por producto en el orden de los ítems y
//     valida stock + delta >= 0 antes de escribir nada.
//  5. Aplica los deltas, marca POSTED con postedAt y hace Commit.
//
// Cualquier error revierte la transacción completa: ningún cambio parcial de
// stock ni de estado sobrevive a una contabilización fallida.
func (uc *MovementUseCase) Post(ctx context.Context, movementID string) (*dto.MovementResponse, error) {
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		movement, err := movRepo.GetByID(movementID, true)
		if err != nil {
			return err
		}
		if movement == nil {
			return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, movementID)
		}
		if !movement.IsDraft() {
			return fmt.Errorf("%w: solo los borradores se contabilizan, estado actual %s",
				domain.ErrInvalidStateTransition, movement.Status)
		}
		if len(movement.Items) == 0 {
			return domain.ErrEmptyMovement
		}

		// Conjunto distinto de productos, ordenado ascendente: el orden de
		// adquisición determinista acota el riesgo de deadlock entre
		// contabilizaciones concurrentes.
		seen := make(map[string]struct{}, len(movement.Items))
		ids := make([]string, 0, len(movement.Items))
		for _, it := range movement.Items {
			if _, ok := seen[it.ProductID]; ok {
				continue
			}
			seen[it.ProductID] = struct{}{}
			ids = append(ids, it.ProductID)
		}
		sort.Strings(ids)

		products, err := productRepo.GetByIDsForUpdate(ids)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
			}
		}

		// Acumular por producto antes de validar: ítems repetidos sobre el
		// mismo producto se suman sobre la copia bloqueada.
		deltas := make(map[string]int, len(ids))
		for _, it := range movement.Items {
			deltas[it.ProductID] += entity.DeltaFor(movement.MovementType, it.Quantity)
		}

		for _, id := range ids {
			p := byID[id]
			delta := deltas[id]
			if p.Stock+delta < 0 {
				return &domain.StockUnderflowError{
					ProductID:       p.ID,
					SKU:             p.SKU,
					CurrentStock:    p.Stock,
					RequestedChange: delta,
					ResultingStock:  p.Stock + delta,
				}
			}
		}

		for _, id := range ids {
			p := byID[id]
			if err := productRepo.UpdateStock(p.ID, p.Stock+deltas[id]); err != nil {
				return err
			}
		}

		now := time.Now()
		return movRepo.UpdateStatus(movementID, entity.MovementStatusPosted, &now)
	})
	if err != nil {
		return nil, err
	}
	// Relectura fuera de la tx ya confirmada, con ítems y productos frescos.
	return uc.FindByID(movementID)
}
