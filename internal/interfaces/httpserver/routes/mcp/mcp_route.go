package mcp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"webscout-server/internal/domain/tool"
	"webscout-server/internal/interfaces/httpserver/responses"
	"webscout-server/utils/platformerrors"
)

// serverVersion is reported in the MCP initialize handshake.
const serverVersion = "1.0.0"

var allowedMCPMethods = map[string]bool{
	// Initialization / handshake
	"initialize": true,
	"ping":       true,

	// Tools
	"tools/list": true,
	"tools/call": true,

	// Logging
	"logging/setLevel": true,
}

// notificationPrefix admits every notification the SDK understands
// (notifications/initialized, notifications/cancelled, ...).
const notificationPrefix = "notifications/"

func methodAllowed(method string) bool {
	return allowedMCPMethods[method] || strings.HasPrefix(method, notificationPrefix)
}

type MCPRoute struct {
	dispatcher  *tool.Dispatcher
	mcpServer   *mcp.Server
	httpHandler http.Handler
}

func NewMCPRoute(dispatcher *tool.Dispatcher) *MCPRoute {
	impl := &mcp.Implementation{
		Name:    "webscout",
		Version: serverVersion,
	}
	server := mcp.NewServer(impl, nil)

	registerTools(server, dispatcher)

	return &MCPRoute{
		dispatcher: dispatcher,
		mcpServer:  server,
		httpHandler: mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
			return server
		}, &mcp.StreamableHTTPOptions{Stateless: true}),
	}
}

func (route *MCPRoute) RegisterRouter(router *gin.RouterGroup) {
	router.POST("/mcp",
		MCPMethodGuard(),
		route.serveMCP,
	)
	router.GET("/mcp/tools", route.listTools)
	router.POST("/mcp/tools/call", route.callTool)
}

// serveMCP streams Model Context Protocol responses using the underlying MCP server.
// @Summary MCP endpoint for tool execution
// @Description Handles Model Context Protocol (MCP) requests over HTTP. Supported methods: initialize, ping, tools/list, tools/call, notifications/*, logging/setLevel.
// @Description
// @Description **Available Tools:**
// @Description - `web_search`: Web search returning organic results (params: query, max_results).
// @Description - `news_search`: News search with source and publication date (params: query, max_results).
// @Description - `smart_search`: Adaptive search; mode quick/standard/comprehensive (params: query, mode).
// @Description - `search_and_scrape`: Search and extract article content from the top hits (params: query, num_results).
// @Description - `scrape_html`: Page text extraction with optional CSS selector (params: url, selector).
// @Description - `extract_links`: Hyperlink listing with optional regex filter (params: url, pattern).
// @Description - `extract_metadata`: Title, meta and OpenGraph tags (params: url).
// @Description - `scrape_table`: HTML table extraction as keyed rows (params: url, table_index).
// @Description - `extract_article`: Readable article extraction (params: url).
// @Description
// @Description **MCP Protocol:**
// @Description - Request format: JSON-RPC 2.0 with method and params
// @Description - Response format: JSON or Server-Sent Events (SSE) stream
// @Description - Stateless mode (no session management)
// @Tags MCP API
// @Accept json
// @Produce text/event-stream
// @Param request body object true "MCP JSON-RPC request payload (e.g., {\"jsonrpc\":\"2.0\",\"method\":\"tools/list\",\"id\":1})"
// @Success 200 {string} string "Streamed MCP response in SSE format"
// @Failure 400 {object} responses.ErrorResponse "Invalid MCP request payload or unsupported method"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/mcp [post]
func (route *MCPRoute) serveMCP(reqCtx *gin.Context) {
	// Force acceptable content types for go-sdk streamable handler even if client omits Accept.
	reqCtx.Request.Header.Set("Accept", "application/json, text/event-stream")
	route.httpHandler.ServeHTTP(reqCtx.Writer, reqCtx.Request)
}

// MCPMethodGuard rejects JSON-RPC methods outside the supported surface
// before they reach the MCP server. The request body is restored for the
// downstream handler.
func MCPMethodGuard() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		bodyBytes, err := io.ReadAll(reqCtx.Request.Body)
		if err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeInternal, "failed to read MCP request body", "2edb4e59-22bf-4aca-b76d-326a1ca1859c")
			return
		}
		_ = reqCtx.Request.Body.Close()

		if len(bodyBytes) == 0 {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "empty MCP request body", "d36b6a3e-1c66-41d3-b7dc-a63adadb22ab")
			return
		}

		reqCtx.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var payload struct {
			Method string `json:"method"`
		}

		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid MCP request payload", "4b0d0c44-c43b-4ee2-b6d0-2a8b959609cb")
			return
		}

		if payload.Method == "" {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "missing method field in MCP request", "a4f0a042-e7a2-49ee-984f-2a7777f55189")
			return
		}

		if !methodAllowed(payload.Method) {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "unsupported MCP method: "+payload.Method, "78af7631-c24c-4bdf-8d39-8b01aebc9d9e")
			return
		}

		reqCtx.Next()
	}
}
