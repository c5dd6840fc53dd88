package components

import (
	"catotel/internal/domain/reservation"
	"catotel/internal/domain/scheduling"
	"catotel/internal/pkg/clock"
	"catotel/internal/pkg/lock"
	"catotel/internal/usecase/commands"
	"catotel/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	reservation.NewFactory,
	scheduling.NewAllocator,
	lock.NewKeyedMutex,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
		commands.NewPricingConfigCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewAvailabilityQueries,
		queries.NewPricingQueries,
	),
)
