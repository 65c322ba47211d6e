package entity

import "time"

// Tipos de movimiento de stock. La cantidad del movimiento siempre es una
// magnitud positiva; el signo lo implica el tipo.
const (
	MovementTypeIn           = "in"            // entrada (compra, stock inicial)
	MovementTypeOut          = "out"           // salida (venta manual)
	MovementTypeManualIn     = "manual_in"     // ajuste manual hacia arriba
	MovementTypeManualOut    = "manual_out"    // ajuste manual hacia abajo
	MovementTypeEcommerceOut = "ecommerce_out" // venta sincronizada desde e-commerce
)

// IsInbound indica si el tipo suma stock.
func IsInbound(movementType string) bool {
	return movementType == MovementTypeIn || movementType == MovementTypeManualIn
}

// IsValidMovementType valida el tipo contra el enumerado.
func IsValidMovementType(movementType string) bool {
	switch movementType {
	case MovementTypeIn, MovementTypeOut, MovementTypeManualIn, MovementTypeManualOut, MovementTypeEcommerceOut:
		return true
	}
	return false
}

// StockMovement es un registro append-only del ledger de movimientos.
// El ledger es la fuente de verdad del historial: la suma de magnitudes con
// signo, reproducida en orden de creación, debe coincidir con StockLevel.
type StockMovement struct {
	ID         string
	ProductID  string
	LocationID string
	UserID     string
	Type       string
	Quantity   int64 // magnitud, siempre > 0
	Notes      string
	CreatedAt  time.Time
}

// SignedQuantity devuelve la magnitud con el signo que implica el tipo.
func (m *StockMovement) SignedQuantity() int64 {
	if IsInbound(m.Type) {
		return m.Quantity
	}
	return -m.Quantity
}
