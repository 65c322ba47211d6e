package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL
// (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// Get obtiene el nivel actual de un producto en una ubicación. La ausencia de
// fila equivale a cantidad 0.
func (r *StockLevelRepo) Get(productID, locationID string) (*entity.StockLevel, error) {
	query := `
		SELECT id, product_id, location_id, quantity, updated_at
		FROM stock_levels WHERE product_id = $1 AND location_id = $2`
	var l entity.StockLevel
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&l.ID, &l.ProductID, &l.LocationID, &l.Quantity, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{ProductID: productID, LocationID: locationID, Quantity: 0}, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &l, nil
}

// GetForUpdate obtiene el nivel y bloquea la fila (SELECT FOR UPDATE).
func (r *StockLevelRepo) GetForUpdate(productID, locationID string) (*entity.StockLevel, error) {
	query := `
		SELECT id, product_id, location_id, quantity, updated_at
		FROM stock_levels WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	var l entity.StockLevel
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&l.ID, &l.ProductID, &l.LocationID, &l.Quantity, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{ProductID: productID, LocationID: locationID, Quantity: 0}, nil
		}
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return &l, nil
}

// Upsert inserta o actualiza la cantidad del par (producto, ubicación).
// Un nivel que nunca existió llega sin ID (fila ausente = cantidad 0); en ese
// caso se genera aquí.
func (r *StockLevelRepo) Upsert(level *entity.StockLevel) error {
	id := level.ID
	if id == "" {
		id = uuid.New().String()
	}
	query := `
		INSERT INTO stock_levels (id, product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		id, level.ProductID, level.LocationID, level.Quantity,
	)
	if err != nil {
		return fmt.Errorf("upsert stock level: %w", err)
	}
	return nil
}

// Touch refresca updated_at sin tocar la cantidad (ajuste con delta cero).
func (r *StockLevelRepo) Touch(productID, locationID string) error {
	query := `
		UPDATE stock_levels SET updated_at = now()
		WHERE product_id = $1 AND location_id = $2`
	_, err := r.q.Exec(context.Background(), query, productID, locationID)
	if err != nil {
		return fmt.Errorf("touch stock level: %w", err)
	}
	return nil
}

// OldestForProduct devuelve la fila con updated_at más antiguo, o nil si el
// producto no tiene niveles.
func (r *StockLevelRepo) OldestForProduct(productID string) (*entity.StockLevel, error) {
	query := `
		SELECT id, product_id, location_id, quantity, updated_at
		FROM stock_levels WHERE product_id = $1
		ORDER BY updated_at ASC LIMIT 1`
	var l entity.StockLevel
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&l.ID, &l.ProductID, &l.LocationID, &l.Quantity, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("oldest stock level: %w", err)
	}
	return &l, nil
}

func (r *StockLevelRepo) ListForProduct(productID string) ([]repository.LevelAtLocation, error) {
	query := `
		SELECT s.location_id, l.name, s.quantity
		FROM stock_levels s
		JOIN locations l ON l.id = s.location_id
		WHERE s.product_id = $1
		ORDER BY l.name ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock levels by product: %w", err)
	}
	defer rows.Close()
	var list []repository.LevelAtLocation
	for rows.Next() {
		var l repository.LevelAtLocation
		if err := rows.Scan(&l.LocationID, &l.LocationName, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *StockLevelRepo) DeleteByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_levels WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete stock levels by product: %w", err)
	}
	return nil
}
