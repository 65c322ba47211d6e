package entity

import "time"

// Roles de usuario. Cada usuario es a la vez el tenant dueño de sus
// productos, ubicaciones, movimientos e integraciones.
const (
	RoleAdminStore = "admin_store"
)

// User representa la cuenta dueña de una tienda (tenant).
type User struct {
	ID                         string
	Email                      string
	PasswordHash               string
	Role                       string // admin_store
	Status                     string // active, pending_verification
	VerificationToken          string
	VerificationTokenExpiresAt *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}
