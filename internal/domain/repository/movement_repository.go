package repository

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementFilter filtros para el listado de movimientos.
type MovementFilter struct {
	Status       string
	MovementType string
	Limit        int
	Offset       int
}

// InventoryMovementRepository define el puerto de persistencia para
// movimientos y sus ítems. Los ítems solo se direccionan a través de su
// movimiento (composición): Delete elimina en cascada.
type InventoryMovementRepository interface {
	// Create persiste cabecera e ítems. Llamar dentro de una transacción
	// cuando la atomicidad cabecera+ítems importe (TxRunner).
	Create(movement *entity.InventoryMovement) error
	// GetByID carga el movimiento; con withItems carga eager ítems, sus
	// productos y el nombre del creador.
	GetByID(id string, withItems bool) (*entity.InventoryMovement, error)
	UpdateHeader(movement *entity.InventoryMovement) error
	// UpdateStatus cambia el estado y, si postedAt no es nil, lo fija.
	UpdateStatus(id, status string, postedAt *time.Time) error
	Delete(id string) error
	AddItem(item *entity.MovementItem) error
	GetItemByID(itemID string) (*entity.MovementItem, error)
	RemoveItem(itemID string) error
	List(filter MovementFilter) ([]*entity.InventoryMovement, int, error)
}
