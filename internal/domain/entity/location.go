package entity

import "time"

// Location representa una bodega, tienda o estante donde se almacena stock.
// El nombre es único por tenant.
type Location struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
