package repository

import "github.com/jhoicas/StockTrack-api/internal/domain/entity"

// MovementFilter filtros para el historial de movimientos.
type MovementFilter struct {
	ProductID string // opcional
	Limit     int
	Offset    int
}

// StockMovementRepository puerto del ledger append-only de movimientos
// (usable con pool o tx). No existe Update: el historial es inmutable;
// la única baja permitida es la purga explícita de un producto.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByUser(userID string, filter MovementFilter) ([]*entity.StockMovement, error)
	DeleteByProduct(productID string) error
}
