// Package analytics contiene el caso de uso del resumen del dashboard.
package analytics

import (
	"fmt"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

const (
	lowStockThreshold   = 10 // stock por debajo de este umbral cuenta como "bajo"
	recentMovementLimit = 10
	chartWindowDays     = 30
)

// DashboardUseCase genera el resumen del inventario: conteos de productos,
// stock total, SKUs con stock bajo, movimientos recientes y la serie de
// movimientos por día de los últimos 30 días.
//
// Fuente de datos: DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	repo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Las cinco consultas se lanzan en paralelo; ninguna depende de otra.
func (uc *DashboardUseCase) GetSummary() (*dto.DashboardSummaryDTO, error) {
	type countsResult struct {
		total, active int
		err           error
	}
	type intResult struct {
		n   int
		err error
	}
	type recentResult struct {
		rows []repository.RecentMovementRow
		err  error
	}
	type chartResult struct {
		rows []repository.MovementCountRow
		err  error
	}

	countsCh := make(chan countsResult, 1)
	stockCh := make(chan intResult, 1)
	lowCh := make(chan intResult, 1)
	recentCh := make(chan recentResult, 1)
	chartCh := make(chan chartResult, 1)

	go func() {
		total, active, err := uc.repo.ProductCounts()
		countsCh <- countsResult{total, active, err}
	}()
	go func() {
		n, err := uc.repo.TotalStock()
		stockCh <- intResult{n, err}
	}()
	go func() {
		n, err := uc.repo.LowStockCount(lowStockThreshold)
		lowCh <- intResult{n, err}
	}()
	go func() {
		rows, err := uc.repo.RecentMovements(recentMovementLimit)
		recentCh <- recentResult{rows, err}
	}()
	go func() {
		since := time.Now().AddDate(0, 0, -chartWindowDays)
		rows, err := uc.repo.MovementsPerDay(since)
		chartCh <- chartResult{rows, err}
	}()

	counts := <-countsCh
	stock := <-stockCh
	low := <-lowCh
	recent := <-recentCh
	chart := <-chartCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: conteos de productos: %w", counts.err)
	}
	if stock.err != nil {
		return nil, fmt.Errorf("dashboard: stock total: %w", stock.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos recientes: %w", recent.err)
	}
	if chart.err != nil {
		return nil, fmt.Errorf("dashboard: serie de movimientos: %w", chart.err)
	}

	recentMovements := make([]dto.RecentMovementDTO, 0, len(recent.rows))
	for _, r := range recent.rows {
		name := r.CreatorName
		if name == "" {
			name = "Desconocido"
		}
		recentMovements = append(recentMovements, dto.RecentMovementDTO{
			ID:           r.ID,
			MovementType: r.MovementType,
			Status:       r.Status,
			Reference:    r.Reference,
			CreatedBy:    r.CreatedBy,
			CreatorName:  name,
			ItemCount:    r.ItemCount,
			CreatedAt:    r.CreatedAt,
		})
	}
	chartData := make([]dto.ChartDataPointDTO, 0, len(chart.rows))
	for _, r := range chart.rows {
		chartData = append(chartData, dto.ChartDataPointDTO{
			Date:         r.Date,
			MovementType: r.MovementType,
			Count:        r.Count,
		})
	}

	return &dto.DashboardSummaryDTO{
		TotalProducts:   counts.total,
		ActiveProducts:  counts.active,
		TotalStock:      stock.n,
		LowStockCount:   low.n,
		RecentMovements: recentMovements,
		ChartData:       chartData,
	}, nil
}
