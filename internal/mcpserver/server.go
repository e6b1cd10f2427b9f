// Package mcpserver exposes a toolkit.Registry over the Model Context
// Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/guttosm/quotepulse/internal/toolkit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is announced to MCP clients during initialization.
const ServerName = "yahoo-finance-mcp"

// New builds an MCP server with the registry's tools and resources. When
// groups is non-empty only tools of those groups are registered.
func New(reg *toolkit.Registry, version string, groups ...string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	log := logger.With("mcp")
	tools, unknown := selectTools(reg, groups)
	if len(unknown) > 0 {
		log.Warn().Strs("unknown_groups", unknown).Strs("known_groups", reg.Groups()).Msg("ignoring unknown tool groups")
	}
	for _, t := range tools {
		s.AddTool(toolSchema(t), toolHandler(reg, t.Name))
	}
	for _, res := range reg.Resources() {
		s.AddResource(
			mcp.NewResource(res.URI, res.Name,
				mcp.WithResourceDescription(res.Description),
				mcp.WithMIMEType(res.MIMEType),
			),
			resourceHandler(reg, res.URI, res.MIMEType),
		)
	}

	log.Info().Int("tools", len(tools)).Strs("groups", groups).Msg("mcp server built")
	return s
}

// selectTools returns the tools of the named groups, each group once and in
// first-mention order, plus the names that match no group in reg.
func selectTools(reg *toolkit.Registry, groups []string) (tools []toolkit.Tool, unknown []string) {
	if len(groups) == 0 {
		return reg.Tools(), nil
	}
	known := make(map[string]bool)
	for _, g := range reg.Groups() {
		known[g] = true
	}
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if seen[g] {
			continue
		}
		seen[g] = true
		if !known[g] {
			unknown = append(unknown, g)
			continue
		}
		tools = append(tools, reg.Group(g)...)
	}
	return tools, unknown
}

// toolSchema turns a tool declaration into an MCP tool with a JSON schema.
func toolSchema(t toolkit.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}
	for _, p := range t.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		if p.Default != nil {
			props = append(props, withDefault(p.Default))
		}

		switch p.Type {
		case toolkit.TypeNumber:
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		case toolkit.TypeBoolean:
			opts = append(opts, mcp.WithBoolean(p.Name, props...))
		case toolkit.TypeArray:
			opts = append(opts, mcp.WithArray(p.Name, append(props, mcp.WithStringItems())...))
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	return mcp.NewTool(t.Name, opts...)
}

func withDefault(v any) mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["default"] = v
	}
}

func toolHandler(reg *toolkit.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(request.GetArguments())
		if err != nil {
			return errorResult(err), nil
		}
		out, err := reg.Invoke(ctx, name, args)
		if err != nil {
			return errorResult(err), nil
		}
		text, err := toolkit.Render(out)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + err.Error())
}

func resourceHandler(reg *toolkit.Registry, uri, mime string) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := reg.ReadResource(ctx, uri)
		if err != nil {
			return nil, fmt.Errorf("Failed to read resource %s: %w", uri, err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: uri, MIMEType: mime, Text: text},
		}, nil
	}
}

// ServeStdio serves s on stdin/stdout until the input closes.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// NewSSE returns the SSE transport for s, advertising baseURL to clients.
func NewSSE(s *server.MCPServer, baseURL string) *server.SSEServer {
	return server.NewSSEServer(s, server.WithBaseURL(baseURL))
}

// NewStreamableHTTP returns a stateless streamable HTTP handler for s.
func NewStreamableHTTP(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s, server.WithStateLess(true))
}
