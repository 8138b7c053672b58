package dto

import "time"

// CreateMovementItemRequest ítem dentro de POST /api/movements o body de
// POST /api/movements/:id/items.
// La regla de signo de Quantity depende del tipo del movimiento y se valida
// en el caso de uso, no aquí.
type CreateMovementItemRequest struct {
	ProductID     string `json:"product_id" validate:"required,uuid"`
	Quantity      int    `json:"quantity" validate:"required"`
	UnitOfMeasure string `json:"unit_of_measure" validate:"required,max=16"`
}

// CreateMovementRequest body para POST /api/movements.
type CreateMovementRequest struct {
	MovementType string                      `json:"movement_type" validate:"required,oneof=IN OUT ADJUST TRANSFER"`
	Reference    string                      `json:"reference" validate:"omitempty,max=120"`
	Notes        string                      `json:"notes"`
	Items        []CreateMovementItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateMovementRequest body para PUT /api/movements/:id (solo borradores).
type UpdateMovementRequest struct {
	MovementType *string `json:"movement_type" validate:"omitempty,oneof=IN OUT ADJUST TRANSFER"`
	Reference    *string `json:"reference" validate:"omitempty,max=120"`
	Notes        *string `json:"notes"`
}

// MovementQuery query params para GET /api/movements.
type MovementQuery struct {
	PageRequest
	Status       string `query:"status" validate:"omitempty,oneof=DRAFT POSTED CANCELLED"`
	MovementType string `query:"movement_type" validate:"omitempty,oneof=IN OUT ADJUST TRANSFER"`
}

// MovementItemResponse ítem en respuestas.
type MovementItemResponse struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	Product       *ProductResponse `json:"product,omitempty"`
	Quantity      int              `json:"quantity"`
	UnitOfMeasure string           `json:"unit_of_measure"`
	CreatedAt     time.Time        `json:"created_at"`
}

// MovementResponse respuesta de un movimiento con sus ítems.
type MovementResponse struct {
	ID           string                 `json:"id"`
	MovementType string                 `json:"movement_type"`
	Status       string                 `json:"status"`
	Reference    string                 `json:"reference,omitempty"`
	Notes        string                 `json:"notes,omitempty"`
	CreatedBy    string                 `json:"created_by"`
	CreatorName  string                 `json:"creator_name,omitempty"`
	PostedAt     *time.Time             `json:"posted_at"`
	Items        []MovementItemResponse `json:"items"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Data       []MovementResponse `json:"data"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
