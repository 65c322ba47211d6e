package repository

import "github.com/jhoicas/StockTrack-api/internal/domain/entity"

// LocationRepository puerto de persistencia para ubicaciones.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	ListByUser(userID string) ([]*entity.Location, error)
}
