package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas read-only para el resumen del dashboard.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// ProductCounts devuelve total de productos y cuántos están activos.
func (r *DashboardRepo) ProductCounts() (total, active int, err error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM products`
	if err := r.q.QueryRow(context.Background(), query).Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("product counts: %w", err)
	}
	return total, active, nil
}

// TotalStock suma el stock de todos los productos.
func (r *DashboardRepo) TotalStock() (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(stock), 0) FROM products`
	if err := r.q.QueryRow(context.Background(), query).Scan(&total); err != nil {
		return 0, fmt.Errorf("total stock: %w", err)
	}
	return total, nil
}

// LowStockCount cuenta productos activos con stock por debajo del umbral.
func (r *DashboardRepo) LowStockCount(threshold int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products WHERE stock < $1 AND is_active`
	if err := r.q.QueryRow(context.Background(), query, threshold).Scan(&count); err != nil {
		return 0, fmt.Errorf("low stock count: %w", err)
	}
	return count, nil
}

// RecentMovements devuelve los últimos movimientos con nombre del creador y
// conteo de ítems.
func (r *DashboardRepo) RecentMovements(limit int) ([]repository.RecentMovementRow, error) {
	query := `
		SELECT m.id, m.movement_type, m.status, COALESCE(m.reference, ''), m.created_by,
		       COALESCE(u.full_name, ''),
		       (SELECT COUNT(*) FROM inventory_movement_items i WHERE i.movement_id = m.id),
		       m.created_at
		FROM inventory_movements m
		LEFT JOIN users u ON u.id = m.created_by
		ORDER BY m.created_at DESC
		LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent movements: %w", err)
	}
	defer rows.Close()
	var list []repository.RecentMovementRow
	for rows.Next() {
		var row repository.RecentMovementRow
		if err := rows.Scan(&row.ID, &row.MovementType, &row.Status, &row.Reference,
			&row.CreatedBy, &row.CreatorName, &row.ItemCount, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recent movement: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// MovementsPerDay agrupa movimientos por fecha y tipo desde la fecha dada.
func (r *DashboardRepo) MovementsPerDay(since time.Time) ([]repository.MovementCountRow, error) {
	query := `
		SELECT TO_CHAR(DATE(created_at), 'YYYY-MM-DD'), movement_type, COUNT(*)
		FROM inventory_movements
		WHERE created_at >= $1
		GROUP BY DATE(created_at), movement_type
		ORDER BY DATE(created_at)`
	rows, err := r.q.Query(context.Background(), query, since)
	if err != nil {
		return nil, fmt.Errorf("movements per day: %w", err)
	}
	defer rows.Close()
	var list []repository.MovementCountRow
	for rows.Next() {
		var row repository.MovementCountRow
		if err := rows.Scan(&row.Date, &row.MovementType, &row.Count); err != nil {
			return nil, fmt.Errorf("scan movement count: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
