package dto

import "time"

// ConnectShopifyRequest body para POST /api/integrations/shopify/connect.
type ConnectShopifyRequest struct {
	StoreURL string `json:"store_url" validate:"required,hostname"`
}

// ConnectShopifyResponse URL de autorización OAuth que el frontend abre.
type ConnectShopifyResponse struct {
	AuthURL string `json:"authUrl"`
}

// ConnectWooCommerceRequest body para POST /api/integrations/woocommerce/connect.
type ConnectWooCommerceRequest struct {
	StoreURL     string `json:"store_url" validate:"required,url"`
	APIKeyPublic string `json:"api_key_public" validate:"required"`
	APIKeySecret string `json:"api_key_secret" validate:"required"`
}

// IntegrationStatusResponse estado de una integración, sin credenciales.
type IntegrationStatusResponse struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	StoreURL     string     `json:"store_url"`
	Status       string     `json:"status"`
	LastSyncAt   *time.Time `json:"last_sync_at"`
	ErrorMessage string     `json:"error_message,omitempty"`
}
