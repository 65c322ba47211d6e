package dto

import "time"

// RegisterMovementRequest body para POST /api/stock/movements.
// quantity es una magnitud positiva; el signo lo implica type.
type RegisterMovementRequest struct {
	ProductID  string `json:"productId" validate:"required,uuid4"`
	LocationID string `json:"locationId" validate:"required,uuid4"`
	Type       string `json:"type" validate:"required,oneof=in out"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
	Notes      string `json:"notes"`
}

// AdjustLevelRequest body para PUT /api/stock/levels: fija la cantidad
// absoluta de un par (producto, ubicación).
type AdjustLevelRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid4"`
	LocationID string `json:"location_id" validate:"required,uuid4"`
	Quantity   *int64 `json:"quantity" validate:"required,min=0"`
}

// MovementResponse movimiento del ledger.
type MovementResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	LocationID string    `json:"location_id"`
	Type       string    `json:"type"`
	Quantity   int64     `json:"quantity"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

// RegisterMovementResponse respuesta del alta de movimiento.
type RegisterMovementResponse struct {
	Message     string           `json:"message"`
	NewQuantity int64            `json:"new_quantity"`
	Movement    MovementResponse `json:"movement"`
}

// AdjustLevelResponse respuesta del ajuste de nivel.
type AdjustLevelResponse struct {
	Message    string    `json:"message"`
	ProductID  string    `json:"product_id"`
	LocationID string    `json:"location_id"`
	Quantity   int64     `json:"quantity"`
	UpdatedAt  time.Time `json:"updated_at"`
}
