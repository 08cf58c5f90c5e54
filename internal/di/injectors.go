//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"spotr/internal"
	"spotr/internal/catalog"
	"spotr/internal/controllers"
	"spotr/internal/kvstore"
	"spotr/internal/providers"
	"spotr/internal/services"
	"spotr/internal/structures"
)

var storageSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,

	kvstore.NewBackendProvider,
	kvstore.NewStoreProvider,
	kvstore.NewScheduler,
	catalog.NewCatalogProvider,
	services.NewProfileStore,
	services.NewMediaStore,
	services.NewVoteStore,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		storageSet,

		services.NewAppStateProvider,
		controllers.NewProfileController,
		controllers.NewSpotsController,
		controllers.NewMediaController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitMaintenance(cfg *structures.CliFlags) (*internal.Maintenance, error) {

	wire.Build(
		storageSet,
		internal.NewMaintenance,
	)

	return nil, nil
}
