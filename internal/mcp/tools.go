// ABOUTME: MCP tool definitions and registration for the Atlas server
// ABOUTME: Defines JSON schemas for the chat, ingestion, and search tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/atlascareer/atlas/internal/chat"
	"github.com/atlascareer/atlas/internal/ingest"
	"github.com/atlascareer/atlas/internal/retriever"
	"github.com/atlascareer/atlas/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, orchestrator *chat.Orchestrator, sessions *sqlite.SessionStore, documents *sqlite.DocumentStore, processor *ingest.Processor, contextRetriever *retriever.Retriever, topK int, scoreThreshold float32) *Handlers {
	handlers := &Handlers{
		orchestrator:   orchestrator,
		sessions:       sessions,
		documents:      documents,
		processor:      processor,
		retriever:      contextRetriever,
		topK:           topK,
		scoreThreshold: scoreThreshold,
	}

	// 1. chat - Run one advisory chat turn grounded in the owner's documents
	server.AddTool(mcp.Tool{
		Name:        "chat",
		Description: "Send a message to the career advisor. Retrieves relevant context from the user's ingested documents and returns a grounded answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"owner_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the user sending the message",
				},
				"message": map[string]interface{}{
					"type":        "string",
					"description": "The user's message",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session to continue; a new session is created when omitted",
				},
			},
			Required: []string{"owner_id", "message"},
		},
	}, handlers.Chat)

	// 2. ingest_document - Index a document for retrieval
	server.AddTool(mcp.Tool{
		Name:        "ingest_document",
		Description: "Ingest a document (PDF, plain text, or markdown) into the user's knowledge base. The text is chunked, embedded, and indexed for retrieval.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"owner_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the user the document belongs to",
				},
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Filesystem path of the document",
				},
				"mime_type": map[string]interface{}{
					"type":        "string",
					"description": "Document MIME type: application/pdf, text/plain, or text/markdown",
				},
			},
			Required: []string{"owner_id", "path", "mime_type"},
		},
	}, handlers.IngestDocument)

	// 3. search_context - Raw similarity search without generation
	server.AddTool(mcp.Tool{
		Name:        "search_context",
		Description: "Search the user's ingested documents for passages relevant to a query. Returns the passages that would ground a chat answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"owner_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the user whose documents to search",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of passages to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"owner_id", "query"},
		},
	}, handlers.SearchContext)

	// 4. list_sessions - List the owner's chat sessions
	server.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List the user's chat sessions, most recently active first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"owner_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the user whose sessions to list",
				},
			},
			Required: []string{"owner_id"},
		},
	}, handlers.ListSessions)

	// 5. list_documents - List the owner's ingested documents
	server.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List the user's ingested documents, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"owner_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the user whose documents to list",
				},
			},
			Required: []string{"owner_id"},
		},
	}, handlers.ListDocuments)

	// 6. delete_document - Remove a document and its vectors
	server.AddTool(mcp.Tool{
		Name:        "delete_document",
		Description: "Delete an ingested document and every vector created from it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"owner_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the user the document belongs to",
				},
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the document to delete",
				},
			},
			Required: []string{"owner_id", "document_id"},
		},
	}, handlers.DeleteDocument)

	return handlers
}
