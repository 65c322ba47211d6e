package repository

import "github.com/jhoicas/StockTrack-api/internal/domain/entity"

// IntegrationRepository puerto de persistencia para integraciones e-commerce.
// Todas las escrituras por (userID, platform) son upserts: nunca hay dos filas
// para el mismo tenant y plataforma.
type IntegrationRepository interface {
	// UpsertPending crea o reinicia la integración en estado pending
	// (inicio de conexión OAuth).
	UpsertPending(userID, platform, storeURL string) error
	// MarkConnected guarda el token cifrado, pasa a connected y limpia el
	// último error.
	MarkConnected(userID, platform, encryptedToken string) error
	// UpsertConnectedWithKeys upsert en connected con par de claves API
	// (WooCommerce; el secreto llega cifrado).
	UpsertConnectedWithKeys(userID, storeURL, keyPublic, encryptedSecret string) error
	// UpsertError upsert en estado error con el mensaje dado.
	UpsertError(userID, platform, storeURL, message string) error
	// MarkError registra un fallo de sincronización sobre una fila existente.
	MarkError(id, message string) error
	// SetErrorMessage deja constancia de un error por ítem (p. ej. SKU no
	// encontrado) sin cambiar el estado de la integración.
	SetErrorMessage(id, message string) error
	// MarkSynced actualiza la marca de agua last_sync_at y limpia el error
	// (pasada completa de polling: un ciclo exitoso supersede errores viejos).
	MarkSynced(id string) error
	// TouchLastSync solo actualiza last_sync_at. Es la variante para la ruta
	// de webhooks: los errores por ítem registrados durante la orden deben
	// quedar visibles para el operador.
	TouchLastSync(id string) error

	GetByUserAndPlatform(userID, platform string) (*entity.Integration, error)
	GetByStoreDomain(storeURL, platform string) (*entity.Integration, error)
	ListConnectedByPlatform(platform string) ([]*entity.Integration, error)
	ListByUser(userID string) ([]*entity.Integration, error)
}
