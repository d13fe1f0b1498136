//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"msd/internal"
	"msd/internal/controllers"
	"msd/internal/platform"
	"msd/internal/providers"
	"msd/internal/scheduler"
	"msd/internal/services"
	"msd/internal/store"
	"msd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedDataCache,
		providers.NewInstrumentedSettingsCache,

		store.NewGroupGuard,
		store.NewGroupStore,
		wire.Bind(new(store.GroupStoreInterface), new(*store.GroupStore)),
		store.NewSettingsStore,
		wire.Bind(new(store.SettingsStoreInterface), new(*store.SettingsStore)),
		store.NewZstdCompressor,
		store.NewArchiver,

		platform.NewRouteBook,
		platform.NewTextRenderer,
		platform.NewPushRenderer,
		platform.NewWebhookDelivery,
		wire.Bind(new(platform.Delivery), new(*platform.WebhookDelivery)),
		wire.Value(platform.NoopResolver{}),
		wire.Bind(new(platform.MemberResolver), new(platform.NoopResolver)),

		services.NewStatsService,
		scheduler.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
