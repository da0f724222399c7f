//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"webscout-server/internal/domain"
	"webscout-server/internal/infrastructure"
	"webscout-server/internal/interfaces"
	"webscout-server/internal/interfaces/httpserver/routes"
)

func CreateApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		domain.DomainProvider,
		infrastructure.InfrastructureProvider,
		routes.RoutesProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
