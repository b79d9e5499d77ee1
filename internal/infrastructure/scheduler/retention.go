package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/asseta-api/pkg/logger"
)

// Purger elimina entradas de la papelera anteriores a cutoff.
type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Retention job periódico que aplica la ventana de retención de la papelera.
type Retention struct {
	cron      *cron.Cron
	purger    Purger
	retention time.Duration
	log       *logger.Logger
	now       func() time.Time
}

// NewRetention registra el job con la expresión expr (formato robfig/cron, admite "@daily").
func NewRetention(expr string, retentionDays int, purger Purger, log *logger.Logger) (*Retention, error) {
	if retentionDays <= 0 {
		return nil, fmt.Errorf("scheduler: retención debe ser positiva, recibido %d", retentionDays)
	}
	r := &Retention{
		cron:      cron.New(),
		purger:    purger,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		log:       log,
		now:       time.Now,
	}
	if _, err := r.cron.AddFunc(expr, func() { r.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("scheduler: cron inválido %q: %w", expr, err)
	}
	return r, nil
}

// Start inicia el cron en segundo plano.
func (r *Retention) Start() {
	r.cron.Start()
	r.log.Info().Dur("retention", r.retention).Msg("scheduler: retención de papelera activa")
}

// Stop detiene el cron y espera a que termine el job en curso (o a que ctx expire).
func (r *Retention) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce purga una vez; devuelve la cantidad eliminada.
func (r *Retention) RunOnce(ctx context.Context) int64 {
	cutoff := r.now().Add(-r.retention)
	n, err := r.purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		r.log.Error().Err(err).Time("cutoff", cutoff).Msg("scheduler: purga de papelera falló")
		return 0
	}
	if n > 0 {
		r.log.Info().Int64("purged", n).Time("cutoff", cutoff).Msg("scheduler: papelera purgada")
	}
	return n
}
