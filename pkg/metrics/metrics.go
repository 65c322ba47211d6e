// Package metrics expone los contadores Prometheus de la aplicación.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contadores del subsistema de inventario y sincronización.
// Se registran en un Registry propio para no depender del global.
type Metrics struct {
	Registry *prometheus.Registry

	// MovementsApplied movimientos aplicados por el motor, etiquetados por tipo.
	MovementsApplied *prometheus.CounterVec
	// WebhookRequests peticiones de webhook por resultado:
	// ok, invalid_signature, unknown_store, bad_request, internal_error.
	WebhookRequests *prometheus.CounterVec
	// SyncRuns corridas de sincronización por plataforma y resultado (ok, error).
	SyncRuns *prometheus.CounterVec
}

// New construye y registra los contadores.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		MovementsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stocktrack",
			Name:      "movements_applied_total",
			Help:      "Movimientos de stock aplicados por el motor de mutación.",
		}, []string{"type"}),
		WebhookRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stocktrack",
			Name:      "webhook_requests_total",
			Help:      "Webhooks entrantes por resultado.",
		}, []string{"result"}),
		SyncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stocktrack",
			Name:      "sync_runs_total",
			Help:      "Corridas de sincronización por plataforma y resultado.",
		}, []string{"platform", "result"}),
	}
}
