package mcp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/jsonschema-go/jsonschema"

	"webscout-server/internal/domain/tool"
	"webscout-server/utils/platformerrors"
)

// toolListing is one entry in the REST discovery response.
type toolListing struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// callRequest is the REST tool invocation payload.
type callRequest struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
}

// listTools lists every registered tool with its argument schema.
// @Summary List available tools
// @Description Returns the registered tools in registration order, each with its name, description and JSON Schema for arguments.
// @Tags MCP API
// @Produce json
// @Success 200 {object} object "Tool listing with count"
// @Router /v1/mcp/tools [get]
func (route *MCPRoute) listTools(reqCtx *gin.Context) {
	descriptors := route.dispatcher.Registry().List()
	listings := make([]toolListing, 0, len(descriptors))
	for _, desc := range descriptors {
		listings = append(listings, toolListing{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: desc.JSONSchema(),
		})
	}

	reqCtx.JSON(http.StatusOK, gin.H{
		"tools": listings,
		"count": len(listings),
	})
}

// callTool invokes a tool outside the MCP protocol, for curl-level testing
// and non-MCP clients. The response body is always an envelope.
// @Summary Invoke a tool
// @Description Executes a registered tool by name with the given arguments and returns a success/error envelope. The HTTP status reflects the error classification (400 validation, 404 unknown tool, 422 extraction, 502 upstream).
// @Tags MCP API
// @Accept json
// @Produce json
// @Param request body callRequest true "Tool name and arguments"
// @Success 200 {object} tool.Envelope "Tool executed successfully"
// @Failure 400 {object} tool.Envelope "Invalid request or arguments"
// @Failure 404 {object} tool.Envelope "Unknown tool"
// @Failure 502 {object} tool.Envelope "Upstream provider failure"
// @Router /v1/mcp/tools/call [post]
func (route *MCPRoute) callTool(reqCtx *gin.Context) {
	var req callRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		reqCtx.JSON(http.StatusBadRequest, tool.FailureEnvelope("invalid request body: "+err.Error()))
		return
	}

	if strings.TrimSpace(req.ToolName) == "" {
		reqCtx.JSON(http.StatusBadRequest, tool.FailureEnvelope("tool_name is required"))
		return
	}

	data, err := dispatch(reqCtx.Request.Context(), route.dispatcher, req.ToolName, req.Arguments)
	envelope := tool.EnvelopeFor(data, err)
	reqCtx.JSON(statusForError(err), envelope)
}

// statusForError maps a dispatch outcome to an HTTP status. Validation
// failures and platform errors carry their own classification; anything
// else is an internal error.
func statusForError(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var ve *tool.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}

	var pe *platformerrors.PlatformError
	if errors.As(err, &pe) {
		return platformerrors.ErrorTypeToHTTPStatus(pe.Type)
	}

	return http.StatusInternalServerError
}
