package components

import (
	"catotel/internal/infra/readstore"
	"catotel/internal/infra/repository"
	"catotel/internal/usecase/commands"
	"catotel/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// Catalog and schedule repositories stay concrete: the availability
		// read store composes them directly.
		repository.NewCatalogRepository,
		repository.NewScheduleRepository,
		func(r *repository.CatalogRepository) commands.CatalogRepository { return r },
		func(r *repository.ScheduleRepository) commands.ScheduleReads { return r },

		fx.Annotate(
			repository.NewReservationRepository,
			fx.As(new(commands.ReservationRepository)),
		),
		fx.Annotate(
			repository.NewCatRepository,
			fx.As(new(commands.CatRepository)),
		),
		fx.Annotate(
			repository.NewServiceRepository,
			fx.As(new(commands.ServiceRepository)),
			fx.As(new(queries.ServiceReadStore)),
		),
		fx.Annotate(
			repository.NewPricingConfigRepository,
			fx.As(new(commands.PricingConfigRepository)),
			fx.As(new(queries.PricingReadStore)),
		),
		// The maintenance reaper needs the concrete type for DeleteExpired.
		repository.NewIdempotencyRepository,
		func(r *repository.IdempotencyRepository) commands.IdempotencyRepository { return r },
		fx.Annotate(
			repository.NewNotificationRepository,
			fx.As(new(commands.NotificationRepository)),
		),

		// Read-side stores for queries
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		fx.Annotate(
			readstore.NewAvailabilityReadStore,
			fx.As(new(queries.AvailabilityReadStore)),
		),
	),
)
