package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIN       = "IN"       // entrada
	MovementTypeOUT      = "OUT"      // salida
	MovementTypeADJUST   = "ADJUST"   // ajuste con cantidad firmada
	MovementTypeTRANSFER = "TRANSFER" // reservado para multi-bodega, sin efecto neto
)

// Estados del ciclo de vida de un movimiento.
// Solo DRAFT es mutable; POSTED y CANCELLED son terminales.
const (
	MovementStatusDraft     = "DRAFT"
	MovementStatusPosted    = "POSTED"
	MovementStatusCancelled = "CANCELLED"
)

// InventoryMovement es una transacción del libro de inventario: uno o más
// ítems que, al contabilizarse (POSTED), aplican deltas de stock de forma
// atómica. El movimiento es dueño exclusivo de sus ítems (se borran con él).
type InventoryMovement struct {
	ID           string
	MovementType string
	Status       string
	Reference    string // máx. 120, opcional
	Notes        string // opcional
	CreatedBy    string // UserID
	CreatorName  string // solo lectura, viene del join con users
	PostedAt     *time.Time
	Items        []*MovementItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MovementItem referencia un Product (asociación no-propietaria, resuelta por id).
// Quantity es > 0 salvo en movimientos ADJUST, donde puede ser negativa y se
// aplica como delta firmado.
type MovementItem struct {
	ID            string
	MovementID    string
	ProductID     string
	Quantity      int
	UnitOfMeasure string
	Product       *Product // solo lectura, carga eager
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsDraft indica si el movimiento todavía admite mutaciones.
func (m *InventoryMovement) IsDraft() bool {
	return m.Status == MovementStatusDraft
}

// ValidMovementType verifica que el tipo sea uno de los soportados.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUST, MovementTypeTRANSFER:
		return true
	}
	return false
}

// DeltaFor calcula el delta firmado de stock que un ítem aporta según el tipo
// del movimiento: IN suma, OUT resta, ADJUST aplica la cantidad tal cual
// (puede ser negativa) y TRANSFER no tiene efecto neto.
func DeltaFor(movementType string, quantity int) int {
	switch movementType {
	case MovementTypeIN:
		return quantity
	case MovementTypeOUT:
		return -quantity
	case MovementTypeADJUST:
		return quantity
	case MovementTypeTRANSFER:
		return 0
	}
	return 0
}

// ValidItemQuantity aplica la regla de signo por tipo: ADJUST admite cantidad
// negativa (delta firmado); el resto exige cantidad estrictamente positiva.
func ValidItemQuantity(movementType string, quantity int) bool {
	if movementType == MovementTypeADJUST {
		return quantity != 0
	}
	return quantity > 0
}
