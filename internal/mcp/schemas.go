package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// retrievePatternsTool returns the tool definition for retrieve_patterns
func retrievePatternsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "retrieve_patterns",
		Description: "Retrieve the UI patterns most relevant to a natural language query using hybrid lexical + semantic search",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text description of the desired pattern (e.g. 'primary button with loading state')",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-50)",
					"default":     3,
					"minimum":     1,
					"maximum":     50,
				},
			},
			Required: []string{"query"},
		},
	}
}

// refreshCatalogTool returns the tool definition for refresh_catalog
func refreshCatalogTool() mcp.Tool {
	return mcp.Tool{
		Name:        "refresh_catalog",
		Description: "Reload the pattern catalog from its source and rebuild the lexical and vector indexes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report catalog size, fusion weights and embedding provider",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
