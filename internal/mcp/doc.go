// Package mcp implements the Model Context Protocol (MCP) server for the
// pattern retrieval engine.
//
// The server exposes three tools to AI coding assistants:
//   - retrieve_patterns: Run a hybrid lexical + semantic query over the catalog
//   - refresh_catalog: Reload patterns from the configured source
//   - get_status: Report engine configuration and catalog size
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// stdout carries protocol messages only; all logging goes to stderr.
//
// # Tool: retrieve_patterns
//
// Retrieve the patterns most relevant to a free-text query:
//
//	Request:
//	{
//	  "name": "retrieve_patterns",
//	  "arguments": {
//	    "query": "primary button with loading state",
//	    "top_k": 3
//	  }
//	}
//
//	Response:
//	{
//	  "query": "primary button with loading state",
//	  "count": 3,
//	  "results": [
//	    {
//	      "rank": 1,
//	      "pattern_id": "pat-button",
//	      "name": "Button",
//	      "lexical_score": 1.0,
//	      "semantic_score": 0.94,
//	      "fused_score": 0.96,
//	      "explanation": "Exact match on keywords: primary, loading, button | Semantically similar (score: 0.94)"
//	    }
//	  ]
//	}
//
// # Tool: refresh_catalog
//
// Reload the catalog and rebuild the indexes. In-flight retrievals keep
// serving from the previous snapshot until the swap completes:
//
//	Request:  {"name": "refresh_catalog", "arguments": {}}
//	Response: {"refreshed": true, "patterns_indexed": 128, "duration_ms": 412}
//
// # Tool: get_status
//
// Report the current engine state:
//
//	Request:  {"name": "get_status", "arguments": {}}
//	Response:
//	{
//	  "patterns_indexed": 128,
//	  "weights": {"lexical": 0.3, "semantic": 0.7},
//	  "embedding_provider": "openai"
//	}
//
// # Error Handling
//
// The server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32001,
//	    "message": "query parameter is required and cannot be empty",
//	    "data": {"param": "query", "reason": "missing or empty"}
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error
//   - -32001: Empty query
//   - -32002: All retrievers unavailable
//   - -32003: Catalog refresh failed
package mcp
