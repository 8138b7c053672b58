package entity

import "time"

// Product representa un producto (SKU) del catálogo.
// Stock es un entero que nunca puede quedar negativo; solo lo muta el motor
// de contabilización de movimientos. Version se incrementa en cada guardado
// y sirve como tag de concurrencia optimista para las rutas de catálogo
// (nunca participa en la contabilización, que usa bloqueo pesimista).
type Product struct {
	ID            string
	SKU           string // código único, máx. 64
	Name          string
	UnitOfMeasure string // máx. 16
	IsActive      bool
	Stock         int // invariante: >= 0 siempre
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
