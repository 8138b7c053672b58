package repository

import "time"

// RecentMovementRow fila del widget de movimientos recientes.
type RecentMovementRow struct {
	ID           string
	MovementType string
	Status       string
	Reference    string
	CreatedBy    string
	CreatorName  string
	ItemCount    int
	CreatedAt    time.Time
}

// MovementCountRow punto de la serie de movimientos por día y tipo.
type MovementCountRow struct {
	Date         string // YYYY-MM-DD
	MovementType string
	Count        int
}

// DashboardRepository consultas read-only para el resumen del dashboard.
type DashboardRepository interface {
	ProductCounts() (total, active int, err error)
	TotalStock() (int, error)
	LowStockCount(threshold int) (int, error)
	RecentMovements(limit int) ([]RecentMovementRow, error)
	MovementsPerDay(since time.Time) ([]MovementCountRow, error)
}
