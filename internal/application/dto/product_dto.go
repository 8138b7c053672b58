package dto

import "time"

// CreateProductRequest body para POST /api/products. Stock siempre inicia en 0.
type CreateProductRequest struct {
	SKU           string `json:"sku" validate:"required,max=64"`
	Name          string `json:"name" validate:"required,max=120"`
	UnitOfMeasure string `json:"unit_of_measure" validate:"required,max=16"`
	IsActive      *bool  `json:"is_active"`
}

// UpdateProductRequest body para PUT /api/products/:id. Stock no se edita por
// catálogo: solo lo muta la contabilización de movimientos.
type UpdateProductRequest struct {
	SKU           *string `json:"sku" validate:"omitempty,max=64"`
	Name          *string `json:"name" validate:"omitempty,max=120"`
	UnitOfMeasure *string `json:"unit_of_measure" validate:"omitempty,max=16"`
	IsActive      *bool   `json:"is_active"`
	// Version habilita el chequeo optimista; si viene, debe coincidir con la
	// versión actual de la fila.
	Version *int `json:"version" validate:"omitempty,min=1"`
}

// ProductQuery query params para GET /api/products.
type ProductQuery struct {
	PageRequest
	Q             string `query:"q" validate:"omitempty,max=120"`
	IsActive      *bool  `query:"is_active"`
	UnitOfMeasure string `query:"unit_of_measure" validate:"omitempty,max=16"`
}

// ProductResponse respuesta de producto.
type ProductResponse struct {
	ID            string    `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	UnitOfMeasure string    `json:"unit_of_measure"`
	IsActive      bool      `json:"is_active"`
	Stock         int       `json:"stock"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
