package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrVersionConflict        = errors.New("conflicto de versión")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrUnitMismatch           = errors.New("unidad de medida no coincide")
	ErrEmptyMovement          = errors.New("el movimiento no tiene ítems")
)

// StockUnderflowError indica que contabilizar un movimiento dejaría el stock
// de un producto en negativo. Lleva el detalle del producto ofensor para que
// la capa HTTP lo exponga en el payload de error.
type StockUnderflowError struct {
	ProductID       string
	SKU             string
	CurrentStock    int
	RequestedChange int
	ResultingStock  int
}

func (e *StockUnderflowError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s (actual: %d, cambio: %d, resultado: %d)",
		e.SKU, e.CurrentStock, e.RequestedChange, e.ResultingStock)
}

// IsStockUnderflow verifica si un error (o su cadena) es un StockUnderflowError.
func IsStockUnderflow(err error) bool {
	var target *StockUnderflowError
	return errors.As(err, &target)
}
