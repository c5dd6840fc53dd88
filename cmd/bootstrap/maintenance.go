package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"catotel/internal/infra/repository"
	"catotel/internal/pkg/config"

	"go.uber.org/fx"
)

var MaintenanceModule = fx.Module("maintenance",
	fx.Invoke(startIdempotencyReaper),
)

// startIdempotencyReaper deletes expired idempotency keys on a fixed interval
// so the table does not grow without bound.
func startIdempotencyReaper(lc fx.Lifecycle, repo *repository.IdempotencyRepository, cfg config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Engine.IdempotencyReapInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						reaped, err := repo.DeleteExpired(ctx)
						if err != nil {
							logger.Warn("failed to reap expired idempotency keys", "error", err)
							continue
						}
						if reaped > 0 {
							logger.Info("reaped expired idempotency keys", "count", reaped)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}
