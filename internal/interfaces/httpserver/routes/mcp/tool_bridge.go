package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"webscout-server/internal/domain/tool"
	"webscout-server/internal/infrastructure/metrics"
)

// registerTools mirrors the dispatcher's registry onto the MCP server so
// tools/list and tools/call expose the same catalog the REST endpoints serve.
func registerTools(server *mcp.Server, dispatcher *tool.Dispatcher) {
	for _, desc := range dispatcher.Registry().List() {
		server.AddTool(&mcp.Tool{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: desc.JSONSchema(),
		}, toolHandler(dispatcher, desc.Name))
	}
	log.Info().Int("count", dispatcher.Registry().Len()).Msg("Tools registered with MCP server")
}

// toolHandler adapts one registered tool to the MCP handler contract. Tool
// failures are reported inside the result with IsError set, never as
// protocol errors, so clients always receive an envelope.
func toolHandler(dispatcher *tool.Dispatcher, toolName string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawArgs := map[string]any{}
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &rawArgs); err != nil {
				return failureResult(tool.FailureEnvelope("invalid tool arguments: " + err.Error())), nil
			}
		}

		data, err := dispatch(ctx, dispatcher, toolName, rawArgs)
		envelope := tool.EnvelopeFor(data, err)
		if !envelope.Success {
			return failureResult(envelope), nil
		}

		encoded, err := json.Marshal(data)
		if err != nil {
			log.Error().Str("tool", toolName).Err(err).Msg("failed to encode tool result")
			return failureResult(tool.FailureEnvelope("failed to encode tool result")), nil
		}

		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: string(encoded)}},
			StructuredContent: envelope,
		}, nil
	}
}

// failureResult renders a failure envelope as an MCP tool error result.
func failureResult(envelope tool.Envelope) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: envelope.Error}},
		StructuredContent: envelope,
		IsError:           true,
	}
}

// dispatch wraps Dispatcher.Call with per-tool metrics and timing. Both
// transports funnel through here so MCP and REST report identical numbers.
func dispatch(ctx context.Context, dispatcher *tool.Dispatcher, toolName string, rawArgs map[string]any) (any, error) {
	start := time.Now()
	data, err := dispatcher.Call(ctx, toolName, rawArgs)
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordToolCall(toolName, status, elapsed.Seconds())

	if err != nil {
		log.Warn().Str("tool", toolName).Dur("duration", elapsed).Err(err).Msg("Tool call failed")
	} else {
		log.Info().Str("tool", toolName).Dur("duration", elapsed).Msg("Tool call completed")
	}

	return data, err
}
