package entity

import "time"

// Plataformas de e-commerce soportadas.
const (
	PlatformShopify     = "shopify"
	PlatformWooCommerce = "woocommerce"
)

// Estados de una integración. Transiciones:
// pending → connected → {connected, error}; reconectar desde error vuelve a
// pending. disconnected solo se alcanza por desconexión explícita del tenant.
const (
	IntegrationStatusPending      = "pending"
	IntegrationStatusConnected    = "connected"
	IntegrationStatusError        = "error"
	IntegrationStatusDisconnected = "disconnected"
)

// Integration representa la conexión de un tenant con una plataforma externa.
// Única por (UserID, Type). Las credenciales se guardan cifradas con el vault.
type Integration struct {
	ID           string
	UserID       string
	Type         string // shopify, woocommerce
	StoreURL     string
	AccessToken  string // blob cifrado (Shopify)
	APIKeyPublic string // consumer key (WooCommerce)
	APIKeySecret string // blob cifrado (WooCommerce)
	Status       string
	ErrorMessage string
	LastSyncAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
