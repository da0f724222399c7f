package httpserver

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"webscout-server/internal/infrastructure/auth"
	"webscout-server/internal/infrastructure/config"
	"webscout-server/internal/interfaces/httpserver/middlewares"
	"webscout-server/internal/interfaces/httpserver/routes/mcp"
)

type HTTPServer struct {
	router        *gin.Engine
	config        *config.Config
	mcpRoute      *mcp.MCPRoute
	authValidator *auth.Validator
}

func NewHTTPServer(
	cfg *config.Config,
	mcpRoute *mcp.MCPRoute,
	authValidator *auth.Validator,
) *HTTPServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.CORS())
	router.Use(middlewares.MetricsRecorder())

	if authValidator != nil {
		router.Use(authValidator.Middleware())
	}

	return &HTTPServer{
		router:        router,
		config:        cfg,
		mcpRoute:      mcpRoute,
		authValidator: authValidator,
	}
}

func (s *HTTPServer) setupRoutes() {
	// Health check endpoints
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "webscout"})
	})

	s.router.GET("/readyz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ready", "service": "webscout"})
	})

	s.router.GET("/health/auth", func(c *gin.Context) {
		if s.authValidator == nil || s.authValidator.Ready() {
			c.JSON(200, gin.H{"status": "ready"})
			return
		}
		c.JSON(503, gin.H{"status": "initializing"})
	})

	// Prometheus scrape endpoint
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register MCP routes
	v1 := s.router.Group("/v1")
	s.mcpRoute.RegisterRouter(v1)
}

func (s *HTTPServer) Run() error {
	s.setupRoutes()
	addr := fmt.Sprintf(":%s", s.config.HTTPPort)
	return s.router.Run(addr)
}
