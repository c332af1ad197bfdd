package di

import (
	"postviewer/application/ports"
	"postviewer/infrastructure/config"
	"postviewer/infrastructure/session"
	"postviewer/interfaces/http/rest"
	"postviewer/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	LogLevel zap.AtomicLevel
	Logger   *zap.Logger
	Metrics  *observability.Collector
	Tracing  *observability.TracerProvider
	Remote   ports.RemoteDataClient
	Sessions *session.Store
	Router   *rest.Router
	Watcher  *config.Watcher
}
