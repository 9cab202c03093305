package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dlretail/sessiongate/config"
	"github.com/dlretail/sessiongate/internal/adapters/loginapi"
	"github.com/dlretail/sessiongate/internal/adapters/memstore"
	"github.com/dlretail/sessiongate/internal/adapters/redisstore"
	"github.com/dlretail/sessiongate/internal/guard"
	"github.com/dlretail/sessiongate/internal/ports"
	"github.com/dlretail/sessiongate/internal/service"
)

// SessionDeps groups dependencies for BuildSession.
type SessionDeps struct {
	Config    *config.AppConfig
	Navigator ports.Navigator
	Logger    *slog.Logger
}

// Session bundles the constructed session layer: the service, both guard
// adapters, and a Close releasing the storage subscription and any backing
// connections.
type Session struct {
	Service     *service.SessionService
	Storage     *service.StorageService
	NavGuard    *guard.NavigationGuard
	RenderGuard *guard.RenderGuard
	Close       func()
}

// BuildSession wires the session layer for the configured storage backend
// and loads the persisted state. Created once per process; tests construct
// isolated instances with the memory backend.
func BuildSession(ctx context.Context, deps SessionDeps) (*Session, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, closeStore, err := buildStore(deps.Config, logger)
	if err != nil {
		return nil, err
	}

	storage := service.NewStorageService(store, logger)
	api := loginapi.New(loginapi.Options{
		Endpoint: deps.Config.Login.Endpoint,
		Timeout:  deps.Config.Login.Timeout,
	})

	svc := service.NewSessionService(service.SessionServiceOptions{
		Storage:    storage,
		API:        api,
		Navigator:  deps.Navigator,
		Notifier:   store,
		SelfOrigin: store.Origin(),
		Logger:     logger,
	})
	if err := svc.Init(ctx); err != nil {
		closeStore()
		return nil, fmt.Errorf("initialize session service: %w", err)
	}

	return &Session{
		Service:     svc,
		Storage:     storage,
		NavGuard:    guard.NewNavigationGuard(svc, deps.Navigator, logger),
		RenderGuard: guard.NewRenderGuard(svc),
		Close: func() {
			svc.Close()
			closeStore()
		},
	}, nil
}

// buildStore selects the WatchableStore implementation from config.
func buildStore(cfg *config.AppConfig, logger *slog.Logger) (ports.WatchableStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		store := redisstore.New(client, redisstore.Options{
			Prefix: cfg.Storage.Prefix,
			Logger: logger,
		})
		return store, func() {
			if err := client.Close(); err != nil {
				logger.Warn("close redis failed", "error", err)
			}
		}, nil

	case config.StorageBackendMemory, "":
		return memstore.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage backend: %q", cfg.Storage.Backend)
	}
}
