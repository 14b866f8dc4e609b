package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/wcar/internal/infrastructure/logging"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

// DefaultAutosaveInterval is the autosave period when none is configured.
const DefaultAutosaveInterval = 5 * time.Minute

// Saver is the part of Manager the autosave loop needs.
type Saver interface {
	Save(ctx context.Context) (*types.SessionSnapshot, error)
}

// Autosaver saves the session periodically. Repeated failures open a
// circuit breaker so a broken disk is retried only after a cool-down.
type Autosaver struct {
	saver    Saver
	interval time.Duration
	breaker  *resilience.Breaker
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// NewAutosaver creates an autosave loop. The breaker opens after three
// consecutive failures and stays open for three intervals.
func NewAutosaver(saver Saver, interval time.Duration, metrics *monitoring.Metrics, logger *logging.Logger) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	log := logging.OrNop(logger).Component("autosave")

	a := &Autosaver{
		saver:    saver,
		interval: interval,
		metrics:  metrics,
		logger:   log,
	}
	a.breaker = resilience.New("autosave", resilience.Settings{
		Timeout: 3 * interval,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to resilience.State) {
			log.Warn("Autosave breaker changed state",
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
			metrics.SetBreakerState(name, int(to))
		},
	})
	metrics.SetBreakerState("autosave", int(resilience.StateClosed))
	return a
}

// Run saves on every tick until ctx is done.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("Autosave started", zap.Duration("interval", a.interval))
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Autosave stopped")
			return
		case <-ticker.C:
			a.tick(ctx)
		}
	}
}

func (a *Autosaver) tick(ctx context.Context) {
	err := a.breaker.Do(func() error {
		_, err := a.saver.Save(ctx)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		a.logger.Debug("Autosave skipped", zap.Error(err))
		a.metrics.IncAutosaveFailures()
	default:
		a.logger.Warn("Autosave failed", zap.Error(err))
		a.metrics.IncAutosaveFailures()
	}
}

// State reports the breaker state.
func (a *Autosaver) State() resilience.State {
	return a.breaker.State()
}
