//go:build wireinject
// +build wireinject

package di

import (
	"akd/internal"
	"akd/internal/controllers"
	"akd/internal/kvstore"
	"akd/internal/providers"
	"akd/internal/services"
	"akd/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		kvstore.NewZstdCompressor,
		kvstore.NewFileStore,
		wire.Bind(new(kvstore.Store), new(*kvstore.FileStore)),
		kvstore.NewScheduler,

		services.NewNotifierService,
		services.NewAchievementService,
		services.NewRulesService,
		services.NewStreakService,
		services.NewTrackerService,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
