package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/StockTrack-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de agregación de solo lectura para el dashboard.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// Summary calcula las métricas agregadas del tenant: total de SKUs, conteos
// de stock bajo y agotado, y top/bottom de ventas (movimientos de salida por
// venta: out y ecommerce_out).
func (r *DashboardRepo) Summary(userID string) (*repository.DashboardSummary, error) {
	var s repository.DashboardSummary

	countsQuery := `
		SELECT
			(SELECT COUNT(*) FROM products WHERE user_id = $1),
			(SELECT COUNT(DISTINCT p.id)
				FROM products p
				JOIN stock_levels sl ON sl.product_id = p.id
				WHERE p.user_id = $1
				  AND p.min_stock_threshold IS NOT NULL
				  AND sl.quantity > 0
				  AND sl.quantity <= p.min_stock_threshold),
			(SELECT COUNT(DISTINCT p.id)
				FROM products p
				JOIN stock_levels sl ON sl.product_id = p.id
				WHERE p.user_id = $1 AND sl.quantity = 0)`
	err := r.q.QueryRow(context.Background(), countsQuery, userID).Scan(
		&s.TotalSKUs, &s.LowStockCount, &s.OutOfStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}

	s.TopSelling, err = r.salesRanking(userID, "DESC")
	if err != nil {
		return nil, err
	}
	s.LeastSelling, err = r.salesRanking(userID, "ASC")
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// salesRanking agrega unidades vendidas por producto (ventas manuales y de
// e-commerce) y devuelve las 5 primeras en el orden pedido.
func (r *DashboardRepo) salesRanking(userID, direction string) ([]repository.ProductSales, error) {
	// direction viene de código, nunca de entrada del usuario.
	query := fmt.Sprintf(`
		SELECT p.id, p.name, COALESCE(SUM(m.quantity), 0) AS total_out
		FROM products p
		LEFT JOIN stock_movements m ON m.product_id = p.id
			AND m.type IN ('out', 'ecommerce_out')
		WHERE p.user_id = $1
		GROUP BY p.id, p.name
		ORDER BY total_out %s, p.name ASC
		LIMIT 5`, direction)

	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("sales ranking: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductSales
	for rows.Next() {
		var ps repository.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.ProductName, &ps.TotalOut); err != nil {
			return nil, fmt.Errorf("scan sales ranking: %w", err)
		}
		list = append(list, ps)
	}
	return list, rows.Err()
}

// LowStock devuelve una fila por (producto, ubicación) en o por debajo del
// umbral mínimo, con stock aún disponible.
func (r *DashboardRepo) LowStock(userID string) ([]repository.StockAlert, error) {
	query := `
		SELECT p.id, p.name, p.sku, l.name, sl.quantity, p.min_stock_threshold
		FROM products p
		JOIN stock_levels sl ON sl.product_id = p.id
		JOIN locations l ON l.id = sl.location_id
		WHERE p.user_id = $1
		  AND p.min_stock_threshold IS NOT NULL
		  AND sl.quantity > 0
		  AND sl.quantity <= p.min_stock_threshold
		ORDER BY sl.quantity ASC, p.name ASC`
	return r.scanAlerts(query, userID)
}

// OutOfStock devuelve una fila por (producto, ubicación) con cantidad cero.
func (r *DashboardRepo) OutOfStock(userID string) ([]repository.StockAlert, error) {
	query := `
		SELECT p.id, p.name, p.sku, l.name, sl.quantity, p.min_stock_threshold
		FROM products p
		JOIN stock_levels sl ON sl.product_id = p.id
		JOIN locations l ON l.id = sl.location_id
		WHERE p.user_id = $1 AND sl.quantity = 0
		ORDER BY p.name ASC`
	return r.scanAlerts(query, userID)
}

func (r *DashboardRepo) scanAlerts(query, userID string) ([]repository.StockAlert, error) {
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("stock alerts: %w", err)
	}
	defer rows.Close()
	var list []repository.StockAlert
	for rows.Next() {
		var a repository.StockAlert
		if err := rows.Scan(
			&a.ProductID, &a.ProductName, &a.SKU,
			&a.LocationName, &a.CurrentStock, &a.MinThreshold,
		); err != nil {
			return nil, fmt.Errorf("scan stock alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
