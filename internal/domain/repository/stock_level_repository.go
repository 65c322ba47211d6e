package repository

import "github.com/jhoicas/StockTrack-api/internal/domain/entity"

// LevelAtLocation fila de lectura de niveles con el nombre de la ubicación
// (para listados de producto).
type LevelAtLocation struct {
	LocationID   string
	LocationName string
	Quantity     int64
}

// StockLevelRepository puerto de persistencia para niveles de stock
// (usable con pool o tx).
//
// Get y GetForUpdate devuelven una fila con cantidad 0 cuando el par
// (producto, ubicación) nunca ha recibido movimientos: la ausencia de fila
// equivale a cantidad 0.
type StockLevelRepository interface {
	Get(productID, locationID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// read-modify-write concurrentes sobre el mismo par.
	GetForUpdate(productID, locationID string) (*entity.StockLevel, error)
	Upsert(level *entity.StockLevel) error
	// Touch solo refresca updated_at (ajuste con delta cero).
	Touch(productID, locationID string) error
	// OldestForProduct devuelve la fila con updated_at más antiguo para el
	// producto, o nil si no existe ninguna. Desempate determinista usado por
	// la ruta de webhooks para elegir la ubicación a descontar.
	OldestForProduct(productID string) (*entity.StockLevel, error)
	ListForProduct(productID string) ([]LevelAtLocation, error)
	DeleteByProduct(productID string) error
}
