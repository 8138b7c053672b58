package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// ProductFilter filtros para el listado de productos.
type ProductFilter struct {
	Query         string // busca en sku y name (ILIKE)
	IsActive      *bool
	UnitOfMeasure string
	Limit         int
	Offset        int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// GetByIDsForUpdate es la única operación con bloqueo: obtiene el lote de
// filas con FOR UPDATE en una sola sentencia, ordenado por id ascendente para
// acotar el riesgo de deadlock entre contabilizaciones concurrentes. Solo debe
// invocarse dentro de una transacción (repos atados a tx vía TxRunner).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	GetByIDs(ids []string) ([]*entity.Product, error)
	GetByIDsForUpdate(ids []string) ([]*entity.Product, error)
	// Update guarda cambios de catálogo con chequeo optimista: falla con
	// domain.ErrVersionConflict si Version no coincide con la fila actual.
	Update(product *entity.Product) error
	// UpdateStock fija el stock absoluto e incrementa Version. Lo usa
	// exclusivamente el motor de contabilización sobre filas ya bloqueadas.
	UpdateStock(id string, stock int) error
	List(filter ProductFilter) ([]*entity.Product, int, error)
	Delete(id string) error
}
