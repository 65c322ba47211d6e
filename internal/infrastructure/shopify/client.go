// Package shopify implementa el cliente hacia la Admin API de Shopify:
// canje del code de OAuth y suscripción a webhooks de órdenes.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/StockTrack-api/internal/application/integration"
)

const apiVersion = "2023-10"

// Verificar en tiempo de compilación que Client implementa ShopifyClient.
var _ integration.ShopifyClient = (*Client)(nil)

// Client adaptador HTTP de la Admin API de Shopify. Usa net/http; no
// requiere el SDK oficial.
type Client struct {
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

// NewClient construye el adaptador con las credenciales de la app.
func NewClient(apiKey, apiSecret string, timeout time.Duration) *Client {
	return &Client{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type accessTokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// ExchangeCode canjea el code de OAuth por un access token permanente
// contra POST https://{shop}/admin/oauth/access_token.
func (c *Client) ExchangeCode(ctx context.Context, shop, code string) (string, error) {
	payload := accessTokenRequest{
		ClientID:     c.apiKey,
		ClientSecret: c.apiSecret,
		Code:         code,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("shopify: serializar request: %w", err)
	}

	url := fmt.Sprintf("https://%s/admin/oauth/access_token", shop)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("shopify: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("shopify: canje de code fallido: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("shopify: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("shopify: HTTP %d en canje de code: %s", resp.StatusCode, string(rawBody))
	}

	var tokenResp accessTokenResponse
	if err := json.Unmarshal(rawBody, &tokenResp); err != nil {
		return "", fmt.Errorf("shopify: deserializar respuesta: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("shopify: respuesta sin access_token")
	}
	return tokenResp.AccessToken, nil
}

type webhookSubscription struct {
	Webhook struct {
		Topic   string `json:"topic"`
		Address string `json:"address"`
		Format  string `json:"format"`
	} `json:"webhook"`
}

// SubscribeOrderWebhook registra la suscripción al topic orders/create
// apuntando a callbackURL.
func (c *Client) SubscribeOrderWebhook(ctx context.Context, shop, accessToken, callbackURL string) error {
	var payload webhookSubscription
	payload.Webhook.Topic = "orders/create"
	payload.Webhook.Address = callbackURL
	payload.Webhook.Format = "json"

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("shopify: serializar webhook: %w", err)
	}

	url := fmt.Sprintf("https://%s/admin/api/%s/webhooks.json", shop, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("shopify: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shopify: suscripción de webhook fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("shopify: leer respuesta: %w", err)
	}
	// 201 en alta nueva; 422 si el webhook ya existe (idempotente para nosotros).
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusUnprocessableEntity {
		return fmt.Errorf("shopify: HTTP %d en suscripción de webhook: %s", resp.StatusCode, string(rawBody))
	}
	return nil
}
