package di

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/RRPsystem/wbctx/internal/app"
	"github.com/RRPsystem/wbctx/internal/config"
	"github.com/RRPsystem/wbctx/internal/database"
	"github.com/RRPsystem/wbctx/internal/http/handler"
	"github.com/RRPsystem/wbctx/internal/http/middleware"
	"github.com/RRPsystem/wbctx/internal/http/router"
	"github.com/RRPsystem/wbctx/internal/observability"
	"github.com/RRPsystem/wbctx/internal/repository"
	"github.com/RRPsystem/wbctx/internal/security"
	"github.com/RRPsystem/wbctx/internal/service"
)

var AppSet = wire.NewSet(
	config.Load,
	ProvideLogger,
	ProvideDB,
	ProvideRedis,
	ProvideSigner,
	repository.NewContextRepository,
	ProvideCacheStore,
	service.NewMintService,
	ProvideRedeemService,
	ProvideJanitor,
	ProvideCORS,
	ProvideMintLimiter,
	handler.NewContextHandler,
	handler.NewHealthHandler,
	router.New,
	ProvideServer,
	app.New,
)

func ProvideLogger(cfg *config.Config) *slog.Logger {
	logger := observability.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)
	return logger
}

func ProvideDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// ProvideRedis returns nil when no Redis address is configured; consumers
// fall back to in-process implementations.
func ProvideRedis(cfg *config.Config) redis.UniversalClient {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}

func ProvideSigner(cfg *config.Config) (*security.Signer, error) {
	return security.NewSigner(cfg.CtxPrivateKeyPEM, cfg.CtxPublicKeyPEM)
}

func ProvideCacheStore(redisClient redis.UniversalClient) service.ContextCacheStore {
	if redisClient == nil {
		return service.NewMemoryContextCacheStore()
	}
	return service.NewRedisContextCacheStore(redisClient, "")
}

func ProvideRedeemService(cfg *config.Config, repo repository.ContextRepository, cache service.ContextCacheStore, logger *slog.Logger) *service.RedeemService {
	return service.NewRedeemService(cfg, repo, cache, logger)
}

func ProvideJanitor(repo repository.ContextRepository, cfg *config.Config, logger *slog.Logger) *service.Janitor {
	return service.NewJanitor(repo, cfg.JanitorInterval, logger)
}

func ProvideCORS(cfg *config.Config) *middleware.CORS {
	return middleware.NewCORS(cfg.CORSAllowedOrigins)
}

func ProvideMintLimiter(cfg *config.Config, redisClient redis.UniversalClient) *middleware.RateLimiter {
	if redisClient == nil {
		return middleware.NewRateLimiter(cfg.MintRateLimitPerMin, time.Minute)
	}
	limiter := middleware.NewRedisFixedWindowLimiter(redisClient, "")
	return middleware.NewDistributedRateLimiter(limiter, cfg.MintRateLimitPerMin, time.Minute, middleware.FailOpen, "mint")
}

func ProvideServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
