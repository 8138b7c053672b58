package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `m.id, m.movement_type, m.status, COALESCE(m.reference, ''), COALESCE(m.notes, ''),
	m.created_by, COALESCE(u.full_name, ''), m.posted_at, m.created_at, m.updated_at`

// Create persiste cabecera e ítems. Llamar dentro de una tx cuando la
// atomicidad cabecera+ítems importe.
func (r *InventoryMovementRepo) Create(movement *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, movement_type, status, reference, notes, created_by, posted_at, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.MovementType, movement.Status, movement.Reference,
		movement.Notes, movement.CreatedBy, movement.PostedAt, movement.CreatedAt, movement.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	for _, item := range movement.Items {
		if err := r.AddItem(item); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene un movimiento; con withItems carga eager ítems, productos y
// el nombre del creador. Devuelve (nil, nil) si no existe.
func (r *InventoryMovementRepo) GetByID(id string, withItems bool) (*entity.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements m
		LEFT JOIN users u ON u.id = m.created_by
		WHERE m.id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if withItems {
		items, err := r.itemsFor(m.ID)
		if err != nil {
			return nil, err
		}
		m.Items = items
	}
	return m, nil
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := row.Scan(&m.ID, &m.MovementType, &m.Status, &m.Reference, &m.Notes,
		&m.CreatedBy, &m.CreatorName, &m.PostedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// itemsFor carga los ítems de un movimiento con su producto (join).
func (r *InventoryMovementRepo) itemsFor(movementID string) ([]*entity.MovementItem, error) {
	query := `
		SELECT i.id, i.movement_id, i.product_id, i.quantity, i.unit_of_measure, i.created_at, i.updated_at,
		       p.id, p.sku, p.name, p.unit_of_measure, p.is_active, p.stock, p.version, p.created_at, p.updated_at
		FROM inventory_movement_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.movement_id = $1
		ORDER BY i.created_at, i.id`
	rows, err := r.q.Query(context.Background(), query, movementID)
	if err != nil {
		return nil, fmt.Errorf("list movement items: %w", err)
	}
	defer rows.Close()
	var items []*entity.MovementItem
	for rows.Next() {
		var it entity.MovementItem
		var p entity.Product
		if err := rows.Scan(&it.ID, &it.MovementID, &it.ProductID, &it.Quantity, &it.UnitOfMeasure, &it.CreatedAt, &it.UpdatedAt,
			&p.ID, &p.SKU, &p.Name, &p.UnitOfMeasure, &p.IsActive, &p.Stock, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan movement item: %w", err)
		}
		it.Product = &p
		items = append(items, &it)
	}
	return items, rows.Err()
}

// UpdateHeader actualiza tipo, referencia y notas (solo borradores, lo valida
// el caso de uso).
func (r *InventoryMovementRepo) UpdateHeader(movement *entity.InventoryMovement) error {
	query := `
		UPDATE inventory_movements
		SET movement_type = $2, reference = NULLIF($3, ''), notes = NULLIF($4, ''), updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.MovementType, movement.Reference, movement.Notes, movement.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	return nil
}

// UpdateStatus cambia el estado; postedAt se fija solo si viene (posting).
func (r *InventoryMovementRepo) UpdateStatus(id, status string, postedAt *time.Time) error {
	query := `
		UPDATE inventory_movements
		SET status = $2, posted_at = COALESCE($3, posted_at), updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, postedAt)
	if err != nil {
		return fmt.Errorf("update movement status: %w", err)
	}
	return nil
}

// Delete elimina la cabecera; los ítems caen por cascada (FK ON DELETE CASCADE).
func (r *InventoryMovementRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM inventory_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return nil
}

// AddItem inserta un ítem.
func (r *InventoryMovementRepo) AddItem(item *entity.MovementItem) error {
	query := `
		INSERT INTO inventory_movement_items (id, movement_id, product_id, quantity, unit_of_measure, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.MovementID, item.ProductID, item.Quantity, item.UnitOfMeasure,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement item: %w", err)
	}
	return nil
}

// GetItemByID obtiene un ítem. Devuelve (nil, nil) si no existe.
func (r *InventoryMovementRepo) GetItemByID(itemID string) (*entity.MovementItem, error) {
	query := `
		SELECT id, movement_id, product_id, quantity, unit_of_measure, created_at, updated_at
		FROM inventory_movement_items WHERE id = $1`
	var it entity.MovementItem
	err := r.q.QueryRow(context.Background(), query, itemID).Scan(
		&it.ID, &it.MovementID, &it.ProductID, &it.Quantity, &it.UnitOfMeasure, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement item: %w", err)
	}
	return &it, nil
}

// RemoveItem elimina un ítem por ID.
func (r *InventoryMovementRepo) RemoveItem(itemID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM inventory_movement_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete movement item: %w", err)
	}
	return nil
}

// List lista movimientos con filtros de estado y tipo; devuelve el total.
// No carga ítems: el listado muestra cabeceras.
func (r *InventoryMovementRepo) List(filter repository.MovementFilter) ([]*entity.InventoryMovement, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Status != "" {
		where += fmt.Sprintf(" AND m.status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.MovementType != "" {
		where += fmt.Sprintf(" AND m.movement_type = $%d", pos)
		args = append(args, filter.MovementType)
		pos++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM inventory_movements m` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements m
		LEFT JOIN users u ON u.id = m.created_by` + where +
		fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}
