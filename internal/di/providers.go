package di

import (
	"fmt"

	"AstroView/internal/domain/repository"
	"AstroView/internal/handler"
	"AstroView/internal/handler/api"
	"AstroView/internal/service/botapi"
	"AstroView/internal/service/poller"
	"AstroView/internal/usecase"
	"AstroView/pkg/cache"
	"AstroView/pkg/config"
	xhttp "AstroView/pkg/http"
	applogger "AstroView/pkg/logger"
	"AstroView/pkg/metrics"
	"AstroView/pkg/server"
)

// collectorSize bounds the recent-error ring served by the status endpoint.
const collectorSize = 50

// ProvideLogger creates the application logger with an error collector
// attached.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	l.AddCollector(collectorSize)
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the cache backend named in config.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
	case "layered":
		redisCache, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, err
		}
		return cache.NewLayeredCache(redisCache), nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

// ProvideBotClient creates the typed gateway to the bot backend.
func ProvideBotClient(cfg *config.Config, m repository.Metrics, l *applogger.Logger) *botapi.Client {
	return botapi.NewClient(cfg.BotAPI.BaseURL, cfg.BotAPI.RequestTimeout,
		botapi.WithMetrics(m),
		botapi.WithLogger(l),
	)
}

// ProvideUpdateStream creates the backend websocket consumer.
func ProvideUpdateStream(cfg *config.Config, l *applogger.Logger) repository.UpdateStream {
	return botapi.NewStream(cfg.BotAPI.WSURL,
		botapi.WithStreamLogger(l),
		botapi.WithPingInterval(cfg.BotAPI.PingInterval),
		botapi.WithReconnectDelay(cfg.BotAPI.ReconnectDelay),
	)
}

// ProvidePollStore creates the poll slot store.
func ProvidePollStore(m repository.Metrics, l *applogger.Logger) *poller.Store {
	return poller.NewStore(
		poller.WithMetrics(m),
		poller.WithLogger(l),
	)
}

// ProvideDashboardUsecase creates the view-model assembler.
func ProvideDashboardUsecase(
	cfg *config.Config,
	client *botapi.Client,
	polls *poller.Store,
	cacheSvc cache.Service,
	stream repository.UpdateStream,
	l *applogger.Logger,
) *usecase.DashboardUsecase {
	return usecase.NewDashboardUsecase(cfg, client, polls, cacheSvc, stream, l)
}

// ProvidePaperTradeUsecase creates the paper trade use case.
func ProvidePaperTradeUsecase(client *botapi.Client, polls *poller.Store, l *applogger.Logger) *usecase.PaperTradeUsecase {
	return usecase.NewPaperTradeUsecase(client, polls, l)
}

// ProvideAdminUsecase creates the roster use case.
func ProvideAdminUsecase(client *botapi.Client, polls *poller.Store, dash *usecase.DashboardUsecase, l *applogger.Logger) *usecase.AdminUsecase {
	return usecase.NewAdminUsecase(client, polls, dash, l)
}

// ProvideLiveCollector creates the push-to-poll bridge.
func ProvideLiveCollector(stream repository.UpdateStream, polls *poller.Store, l *applogger.Logger) *usecase.LiveCollector {
	return usecase.NewLiveCollector(stream, polls, l)
}

// ProvideDashboardHandler creates the read-only API handler.
func ProvideDashboardHandler(dash *usecase.DashboardUsecase, l *applogger.Logger) *api.DashboardHandler {
	return api.NewDashboardHandler(dash, l)
}

// ProvideAdminHandler creates the mutating API handler.
func ProvideAdminHandler(paper *usecase.PaperTradeUsecase, admin *usecase.AdminUsecase, l *applogger.Logger) *api.AdminHandler {
	return api.NewAdminHandler(paper, admin, l)
}

// ProvideHandler composes the handlers into the server route surface.
func ProvideHandler(dashboard *api.DashboardHandler, admin *api.AdminHandler) xhttp.Handler {
	return handler.NewRegistry(dashboard, admin)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	dash *usecase.DashboardUsecase,
	collector *usecase.LiveCollector,
	polls *poller.Store,
	cacheSvc cache.Service,
	h xhttp.Handler,
) *server.App {
	return server.New(cfg, l, dash, collector, polls, cacheSvc, h)
}
