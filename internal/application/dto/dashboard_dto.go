package dto

import "time"

// RecentMovementDTO movimiento reciente en el resumen del dashboard.
type RecentMovementDTO struct {
	ID           string    `json:"id"`
	MovementType string    `json:"movement_type"`
	Status       string    `json:"status"`
	Reference    string    `json:"reference,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatorName  string    `json:"creator_name"`
	ItemCount    int       `json:"item_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChartDataPointDTO punto de la serie de movimientos de los últimos 30 días.
type ChartDataPointDTO struct {
	Date         string `json:"date"`
	MovementType string `json:"movement_type"`
	Count        int    `json:"count"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalProducts   int                 `json:"total_products"`
	ActiveProducts  int                 `json:"active_products"`
	TotalStock      int                 `json:"total_stock"`
	LowStockCount   int                 `json:"low_stock_count"`
	RecentMovements []RecentMovementDTO `json:"recent_movements"`
	ChartData       []ChartDataPointDTO `json:"chart_data"`
}
