package integration

import (
	"context"
	"time"
)

// LineItem renglón de una orden externa ya mapeado al modelo interno.
type LineItem struct {
	SKU      string
	Quantity int64
}

// Order orden de venta de una plataforma externa.
type Order struct {
	Reference string // número visible de la orden en la plataforma
	LineItems []LineItem
}

// ShopifyClient puerto hacia la API de administración de Shopify.
// Las implementaciones deben acotar el tiempo de cada llamada.
type ShopifyClient interface {
	// ExchangeCode canjea el code de OAuth por un access token permanente.
	ExchangeCode(ctx context.Context, shop, code string) (string, error)
	// SubscribeOrderWebhook registra la suscripción al topic orders/create.
	SubscribeOrderWebhook(ctx context.Context, shop, accessToken, callbackURL string) error
}

// WooCommerceClient puerto hacia la API REST de WooCommerce.
type WooCommerceClient interface {
	// Probe hace una llamada autenticada liviana para validar credenciales.
	Probe(ctx context.Context, storeURL, keyPublic, keySecret string) error
	// FetchOrders trae las órdenes creadas después de la marca de agua
	// (nil = todas).
	FetchOrders(ctx context.Context, storeURL, keyPublic, keySecret string, after *time.Time) ([]Order, error)
}
