//go:build wireinject
// +build wireinject

package di

import (
	"AstroView/pkg/config"
	"AstroView/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Backend gateway
		ProvideBotClient,
		ProvideUpdateStream,
		ProvidePollStore,

		// Use cases
		ProvideDashboardUsecase,
		ProvidePaperTradeUsecase,
		ProvideAdminUsecase,
		ProvideLiveCollector,

		// HTTP surface
		ProvideDashboardHandler,
		ProvideAdminHandler,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
