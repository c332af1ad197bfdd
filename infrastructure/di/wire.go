//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"postviewer/application/ports"
	"postviewer/infrastructure/config"
	"postviewer/infrastructure/remote"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideMetrics,
	ProvideTracing,
	ProvideRemoteClient,
	wire.Bind(new(ports.RemoteDataClient), new(*remote.Client)),
	ProvideSessionFactory,
	ProvideSessionStore,
	ProvideRouter,
	ProvideConfigWatcher,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
