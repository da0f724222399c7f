package routes

import (
	"github.com/google/wire"

	"webscout-server/internal/interfaces/httpserver/routes/mcp"
)

// RoutesProvider provides all route dependencies
var RoutesProvider = wire.NewSet(
	mcp.NewMCPRoute,
)
