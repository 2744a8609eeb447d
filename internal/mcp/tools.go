package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/uigen/patternmatch/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams         = -32602 // Invalid method parameters
	ErrorCodeInternalError         = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery            = -32001 // Query parameter is empty
	ErrorCodeRetrieversUnavailable = -32002 // All retrieval channels failed
	ErrorCodeRefreshFailed         = -32003 // Catalog reload failed
)

// handleRetrievePatterns handles the retrieve_patterns tool invocation
func (s *Server) handleRetrievePatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	topK := getIntDefault(args, "top_k", 0)
	if topK < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "top_k must be positive", map[string]interface{}{
			"param": "top_k",
			"value": topK,
		})
	}

	results, err := s.engine.Retrieve(ctx, query, topK)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrEmptyQuery):
			return nil, newMCPError(ErrorCodeEmptyQuery, "query cannot be empty", nil)
		case errors.Is(err, types.ErrAllRetrieversUnavailable):
			return nil, newMCPError(ErrorCodeRetrieversUnavailable, "no retrieval channel could serve the query", map[string]interface{}{
				"error": err.Error(),
			})
		default:
			return nil, newMCPError(ErrorCodeInternalError, "retrieval failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	items := make([]map[string]interface{}, len(results))
	for i, r := range results {
		items[i] = map[string]interface{}{
			"rank":           r.Rank,
			"pattern_id":     r.PatternID,
			"name":           r.Name,
			"lexical_score":  r.LexicalScore,
			"semantic_score": r.SemanticScore,
			"fused_score":    r.FusedScore,
			"explanation":    r.Explanation,
		}
	}

	response := map[string]interface{}{
		"query":   query,
		"count":   len(results),
		"results": items,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRefreshCatalog handles the refresh_catalog tool invocation
func (s *Server) handleRefreshCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	if err := s.engine.Refresh(ctx); err != nil {
		return nil, newMCPError(ErrorCodeRefreshFailed, "catalog refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"refreshed":        true,
		"patterns_indexed": s.engine.PatternCount(),
		"duration_ms":      time.Since(start).Milliseconds(),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weights := s.engine.Weights()

	response := map[string]interface{}{
		"patterns_indexed": s.engine.PatternCount(),
		"weights": map[string]interface{}{
			"lexical":  weights.Lexical,
			"semantic": weights.Semantic,
		},
		"embedding_provider": s.provider,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
