package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// El stock se maneja por ubicación en StockLevel; aquí solo viven los datos
// del catálogo y los umbrales de alerta.
type Product struct {
	ID                string
	UserID            string
	Name              string
	SKU               string // único por tenant
	Description       string
	Price             decimal.Decimal // precio de venta
	MinStockThreshold *int64          // nil = sin umbral
	MaxStockThreshold *int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
