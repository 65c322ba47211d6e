package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products. El stock inicial se
// registra como nivel + movimiento "in" en la misma transacción del alta.
type CreateProductRequest struct {
	Name              string          `json:"name" validate:"required"`
	SKU               string          `json:"sku" validate:"required"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price" validate:"required"`
	InitialQuantity   *int64          `json:"initial_quantity" validate:"required,min=0"`
	LocationID        string          `json:"location_id" validate:"required,uuid4"`
	MinStockThreshold *int64          `json:"min_stock_threshold,omitempty" validate:"omitempty,min=0"`
	MaxStockThreshold *int64          `json:"max_stock_threshold,omitempty" validate:"omitempty,min=0"`
}

// UpdateProductRequest body para PUT /api/products/:id. Campos nil no se tocan.
type UpdateProductRequest struct {
	Name              *string          `json:"name,omitempty"`
	SKU               *string          `json:"sku,omitempty"`
	Description       *string          `json:"description,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	MinStockThreshold *int64           `json:"min_stock_threshold,omitempty" validate:"omitempty,min=0"`
	MaxStockThreshold *int64           `json:"max_stock_threshold,omitempty" validate:"omitempty,min=0"`
}

// StockLevelDTO nivel de stock por ubicación dentro de un producto.
type StockLevelDTO struct {
	LocationID   string `json:"locationId"`
	LocationName string `json:"locationName"`
	Quantity     int64  `json:"quantity"`
}

// ProductResponse producto con sus niveles por ubicación y el total.
type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	MinStockThreshold *int64          `json:"min_stock_threshold"`
	MaxStockThreshold *int64          `json:"max_stock_threshold"`
	TotalStock        int64           `json:"totalStock"`
	StockLevels       []StockLevelDTO `json:"stockLevels"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}
