// Package worker runs the background maintenance jobs of the service.
package worker

import (
	"context"
	"log/slog"

	"flightdeck/internal/delivery"
	"flightdeck/internal/usecase"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// purgeSchedule runs the session sweep at the top of every hour. Expired
// sessions are already rejected on resolve; the sweep just keeps the table
// from accumulating dead rows.
const purgeSchedule = "@hourly"

// purgeWorker periodically removes expired sessions.
type purgeWorker struct {
	sessions usecase.SessionUsecase
	logger   *slog.Logger
	cron     *cron.Cron
	done     chan struct{}
}

// PurgeWorkerParams holds dependencies for the purge worker
type PurgeWorkerParams struct {
	fx.In
	fx.Lifecycle

	Sessions usecase.SessionUsecase
	Logger   *slog.Logger
}

// NewPurgeWorker creates the cron-driven session purge delivery.
func NewPurgeWorker(params PurgeWorkerParams) (delivery.Delivery, error) {
	w := &purgeWorker{
		sessions: params.Sessions,
		logger:   params.Logger,
		cron:     cron.New(),
		done:     make(chan struct{}),
	}

	if _, err := w.cron.AddFunc(purgeSchedule, w.purge); err != nil {
		return nil, err
	}

	params.Append(fx.Hook{
		OnStop: w.stop,
	})

	return w, nil
}

// Serve starts the cron loop and blocks until the worker is stopped.
func (w *purgeWorker) Serve(ctx context.Context) error {
	w.logger.Info("Starting session purge worker", slog.String("schedule", purgeSchedule))

	// Sweep once at startup so a long-stopped instance catches up immediately.
	w.purge()
	w.cron.Start()

	select {
	case <-ctx.Done():
	case <-w.done:
	}

	return nil
}

func (w *purgeWorker) purge() {
	if _, err := w.sessions.PurgeExpired(context.Background()); err != nil {
		w.logger.Error("Session purge failed", slog.Any("error", err))
	}
}

func (w *purgeWorker) stop(ctx context.Context) error {
	stopCtx := w.cron.Stop()
	close(w.done)

	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}

	return nil
}
