package repository

import "github.com/jhoicas/StockTrack-api/internal/domain/entity"

// ProductFilter filtros opcionales para listar productos.
type ProductFilter struct {
	Name string // ILIKE parcial
	SKU  string // ILIKE parcial
}

// ProductRepository puerto de persistencia para productos (usable con pool o tx).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetBySKU resuelve un SKU dentro del tenant; nil si no existe.
	GetBySKU(userID, sku string) (*entity.Product, error)
	ListByUser(userID string, filter ProductFilter) ([]*entity.Product, error)
	Update(product *entity.Product) error
	Delete(id string) error
}
