package integration

import (
	"context"
	"time"

	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/pkg/logger"
	"github.com/jhoicas/StockTrack-api/pkg/metrics"
)

// Scheduler corre la pasada de sincronización de WooCommerce a intervalo
// fijo, más una corrida inmediata al arrancar el proceso. No es un retry con
// backoff: es una pasada de reconciliación idempotente, segura porque se
// apoya en la marca de agua last_sync_at.
type Scheduler struct {
	uc       *UseCase
	interval time.Duration
	log      *logger.Logger
	met      *metrics.Metrics
}

// NewScheduler construye el scheduler. met puede ser nil.
func NewScheduler(uc *UseCase, interval time.Duration, log *logger.Logger, met *metrics.Metrics) *Scheduler {
	return &Scheduler{uc: uc, interval: interval, log: log, met: met}
}

// Start lanza la goroutine del job. Corre una vez de inmediato y luego en
// cada tick hasta que el contexto se cancele.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		s.log.Info().Dur("interval", s.interval).Msg("iniciando job de sincronización programado")
		s.run(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Info().Msg("job de sincronización detenido")
				return
			case <-ticker.C:
				s.run(ctx)
			}
		}
	}()
}

func (s *Scheduler) run(ctx context.Context) {
	s.log.Info().Msg("iniciando sincronización de órdenes de WooCommerce")
	synced, failed := s.uc.SyncWooCommerceOrders(ctx)
	if s.met != nil {
		for i := 0; i < synced; i++ {
			s.met.SyncRuns.WithLabelValues(entity.PlatformWooCommerce, "ok").Inc()
		}
		for i := 0; i < failed; i++ {
			s.met.SyncRuns.WithLabelValues(entity.PlatformWooCommerce, "error").Inc()
		}
	}
	s.log.Info().Int("synced", synced).Int("failed", failed).Msg("sincronización de WooCommerce finalizada")
}
