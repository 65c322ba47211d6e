package repository

import "github.com/jhoicas/StockTrack-api/internal/domain/entity"

// UserRepository puerto de persistencia para cuentas de tenant.
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
}
