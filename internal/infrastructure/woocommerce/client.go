// Package woocommerce implementa el cliente hacia la API REST de WooCommerce
// (autenticación básica con consumer key/secret).
package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/StockTrack-api/internal/application/integration"
)

// Verificar en tiempo de compilación que Client implementa WooCommerceClient.
var _ integration.WooCommerceClient = (*Client)(nil)

// Client adaptador HTTP de la API REST de WooCommerce (wc/v3).
type Client struct {
	httpClient *http.Client
}

// NewClient construye el adaptador.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Probe hace una llamada autenticada liviana contra system_status para
// validar URL y credenciales antes de guardar la integración.
func (c *Client) Probe(ctx context.Context, storeURL, keyPublic, keySecret string) error {
	endpoint := apiURL(storeURL, "system_status")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("woocommerce: crear HTTP request: %w", err)
	}
	req.SetBasicAuth(keyPublic, keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("woocommerce: probe fallido: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("woocommerce: HTTP %d en probe", resp.StatusCode)
	}
	return nil
}

type wooOrder struct {
	Number    string        `json:"number"`
	LineItems []wooLineItem `json:"line_items"`
}

type wooLineItem struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
}

// FetchOrders trae las órdenes creadas después de la marca de agua
// (after nil = todas), en páginas de 100.
func (c *Client) FetchOrders(ctx context.Context, storeURL, keyPublic, keySecret string, after *time.Time) ([]integration.Order, error) {
	params := url.Values{}
	params.Set("per_page", "100")
	if after != nil {
		params.Set("after", after.UTC().Format(time.RFC3339))
	}

	var all []integration.Order
	for page := 1; ; page++ {
		params.Set("page", strconv.Itoa(page))
		endpoint := apiURL(storeURL, "orders") + "?" + params.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("woocommerce: crear HTTP request: %w", err)
		}
		req.SetBasicAuth(keyPublic, keySecret)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("woocommerce: listar órdenes fallido: %w", err)
		}
		rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("woocommerce: leer respuesta: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("woocommerce: HTTP %d al listar órdenes: %s", resp.StatusCode, string(rawBody))
		}

		var orders []wooOrder
		if err := json.Unmarshal(rawBody, &orders); err != nil {
			return nil, fmt.Errorf("woocommerce: deserializar órdenes: %w", err)
		}
		for _, o := range orders {
			order := integration.Order{Reference: o.Number}
			for _, li := range o.LineItems {
				order.LineItems = append(order.LineItems, integration.LineItem{
					SKU:      li.SKU,
					Quantity: li.Quantity,
				})
			}
			all = append(all, order)
		}
		if len(orders) < 100 {
			return all, nil
		}
	}
}

// apiURL construye la URL del recurso wc/v3 sobre la URL base de la tienda.
func apiURL(storeURL, resource string) string {
	base := strings.TrimRight(storeURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return base + "/wp-json/wc/v3/" + resource
}
