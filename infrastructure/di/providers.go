package di

import (
	"context"
	"time"

	"postviewer/application/app"
	"postviewer/application/ports"
	"postviewer/application/services"
	"postviewer/application/view"
	"postviewer/infrastructure/config"
	"postviewer/infrastructure/remote"
	"postviewer/infrastructure/session"
	"postviewer/interfaces/http/rest"
	"postviewer/pkg/observability"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ProvideLogLevel creates the level shared by the logger and the config
// watcher.
func ProvideLogLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	return zap.ParseAtomicLevel(cfg.LogLevel)
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", "postviewer")), nil
}

// ProvideMetrics creates the Prometheus collector, or nil when metrics are
// disabled.
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("postviewer")
}

// ProvideTracing installs the OTLP tracer provider when tracing is enabled.
// The cleanup flushes pending spans.
func ProvideTracing(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	if !cfg.EnableTracing {
		return nil, func() {}, nil
	}

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: "postviewer",
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Tracing enabled", zap.String("endpoint", cfg.OTLPEndpoint))

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideRemoteClient creates the remote data client
func ProvideRemoteClient(cfg *config.Config, metrics *observability.Collector, logger *zap.Logger) *remote.Client {
	return remote.NewClient(remote.Options{
		BaseURL:       cfg.APIBaseURL,
		DialTimeout:   cfg.HTTPClientTimeout,
		EnableBreaker: cfg.EnableBreaker,
		MaxFailures:   cfg.BreakerMaxFailures,
		OpenTimeout:   cfg.BreakerOpenDuration(),
	}, metrics, logger.Named("remote"))
}

// ProvideSessionFactory builds a fresh document and orchestrator per session.
func ProvideSessionFactory(client ports.RemoteDataClient, logger *zap.Logger) session.Factory {
	return func() *app.Orchestrator {
		renderer := services.NewPostRenderer(client, logger.Named("renderer"))
		controller := view.NewController(view.NewDocument(), renderer, logger.Named("view"))
		return app.NewOrchestrator(client, controller, logger.Named("app"))
	}
}

// ProvideSessionStore creates the session store
func ProvideSessionStore(cfg *config.Config, factory session.Factory, metrics *observability.Collector, logger *zap.Logger) *session.Store {
	return session.NewStore(cfg.SessionTTL(), factory, metrics, logger.Named("session"))
}

// ProvideRouter creates the HTTP router
func ProvideRouter(cfg *config.Config, sessions *session.Store, metrics *observability.Collector, logger *zap.Logger) *rest.Router {
	return rest.NewRouter(rest.RouterConfig{
		SessionCookie:  cfg.SessionCookie,
		SecureCookies:  cfg.IsProduction(),
		EnableCORS:     cfg.EnableCORS,
		AllowedOrigins: cfg.AllowedOrigins,
		Debug:          cfg.IsDevelopment(),
	}, sessions, metrics, logger)
}

// ProvideConfigWatcher creates the config watcher and applies log level
// changes from reloads.
func ProvideConfigWatcher(cfg *config.Config, level zap.AtomicLevel, logger *zap.Logger) *config.Watcher {
	watcher := config.NewWatcher(cfg, logger.Named("config"))
	watcher.OnChange(func(next *config.Config) {
		if err := level.UnmarshalText([]byte(next.LogLevel)); err != nil {
			logger.Warn("Ignoring invalid log level", zap.String("level", next.LogLevel), zap.Error(err))
			return
		}
		logger.Info("Log level updated", zap.String("level", next.LogLevel))
	})
	return watcher
}
