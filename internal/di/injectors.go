//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"sitestats/internal"
	"sitestats/internal/controllers"
	"sitestats/internal/providers"
	"sitestats/internal/services"
	"sitestats/internal/statistic"
	"sitestats/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		statistic.NewZstdCompressor,
		services.NewStatsService,
		statistic.NewPersister,
		statistic.NewArchive,
		statistic.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
