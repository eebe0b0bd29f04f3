// Package mcp attaches to locally configured MCP tool sources and surfaces
// their tool definitions. Sources feed the same pending-integration pipeline
// as backend-requested tools; nothing here executes tools.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"wrapchat/config"
)

// SourceTools is the result of querying one configured source. A failing
// source reports its error here instead of aborting the sweep.
type SourceTools struct {
	Source string
	Tools  []mcptypes.Tool
	Err    error
}

// ListSourceTools connects to each configured source, lists its tools, and
// disconnects. Source specs are either an http(s) URL (SSE transport) or a
// command line (stdio transport).
func ListSourceTools(ctx context.Context, sources []string) []SourceTools {
	results := make([]SourceTools, 0, len(sources))
	for _, source := range sources {
		tools, err := listOne(ctx, source)
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[MCP] Source %q failed: %v", source, err)
		}
		results = append(results, SourceTools{Source: source, Tools: tools, Err: err})
	}
	return results
}

func listOne(ctx context.Context, source string) ([]mcptypes.Tool, error) {
	mcpClient, err := connect(ctx, source)
	if err != nil {
		return nil, err
	}
	defer mcpClient.Close()

	initReq := mcptypes.InitializeRequest{
		Params: mcptypes.InitializeParams{
			ProtocolVersion: "2025-06-18",
			Capabilities:    mcptypes.ClientCapabilities{},
			ClientInfo: mcptypes.Implementation{
				Name:    "wrapchat",
				Version: "1.0.0",
			},
		},
	}
	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		return nil, fmt.Errorf("failed to initialize source: %w", err)
	}

	result, err := mcpClient.ListTools(ctx, mcptypes.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] Source %q exposed %d tools", source, len(result.Tools))
	}
	return result.Tools, nil
}

func connect(ctx context.Context, source string) (*client.Client, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		mcpClient, err := client.NewSSEMCPClient(source)
		if err != nil {
			return nil, err
		}
		if err := mcpClient.GetTransport().Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start SSE transport: %w", err)
		}
		return mcpClient, nil
	}

	// Anything else is a command line for a stdio server.
	parts := strings.Fields(source)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty source spec")
	}
	return client.NewStdioMCPClient(parts[0], nil, parts[1:]...)
}
