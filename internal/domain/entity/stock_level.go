package entity

import "time"

// StockLevel representa la cantidad actual de un producto en una ubicación
// (vista materializada del ledger de movimientos). Invariantes:
//   - Quantity nunca es negativa.
//   - Existe a lo sumo una fila por (ProductID, LocationID).
//   - La ausencia de fila equivale a cantidad 0.
type StockLevel struct {
	ID         string
	ProductID  string
	LocationID string
	Quantity   int64
	UpdatedAt  time.Time
}
