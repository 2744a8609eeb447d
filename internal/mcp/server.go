package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/uigen/patternmatch/internal/engine"
)

const (
	// ServerName is the MCP server name
	ServerName = "patternmatch"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the retrieval engine.
type Server struct {
	mcp      *server.MCPServer
	engine   *engine.Engine
	provider string
}

// NewServer creates an MCP server around an already-constructed engine.
// The engine owns the catalog and retriever lifecycle; this layer only
// translates tool calls.
func NewServer(eng *engine.Engine, embeddingProvider string) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine is required")
	}

	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		engine:   eng,
		provider: embeddingProvider,
	}

	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(retrievePatternsTool(), s.handleRetrievePatterns)
	s.mcp.AddTool(refreshCatalogTool(), s.handleRefreshCatalog)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
