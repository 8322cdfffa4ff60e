// ABOUTME: MCP tool handler implementations for the Atlas server
// ABOUTME: Maps tool calls onto the chat orchestrator and ingestion pipeline
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/atlascareer/atlas/internal/chat"
	"github.com/atlascareer/atlas/internal/ingest"
	"github.com/atlascareer/atlas/internal/models"
	"github.com/atlascareer/atlas/internal/retriever"
	"github.com/atlascareer/atlas/internal/storage/sqlite"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	orchestrator *chat.Orchestrator
	sessions     *sqlite.SessionStore
	documents    *sqlite.DocumentStore
	processor    *ingest.Processor
	retriever    *retriever.Retriever

	topK           int
	scoreThreshold float32
}

// Chat handles the chat tool. Failures are reported with the turn's stable
// state label; the underlying cause goes to the log only.
func (h *Handlers) Chat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ownerID, err := request.RequireString("owner_id")
	if err != nil {
		return mcp.NewToolResultError("owner_id argument is required and must be a string"), nil
	}
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		session := models.NewSession(ownerID, "")
		if err := h.sessions.Save(session); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create session: %v", err)), nil
		}
		sessionID = session.ID
	} else {
		if _, err := h.sessions.Get(ownerID, sessionID); err != nil {
			if errors.Is(err, sqlite.ErrNotFound) {
				return mcp.NewToolResultError("session not found"), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("failed to load session: %v", err)), nil
		}
	}

	result, err := h.orchestrator.RunTurn(ctx, sessionID, ownerID, message)
	if err != nil {
		var turnErr *chat.TurnError
		if errors.As(err, &turnErr) {
			log.Printf("chat turn failed after %s: %v", turnErr.State, turnErr.Err)
			return mcp.NewToolResultError(fmt.Sprintf("chat turn failed after %s", turnErr.State)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("chat turn failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"session_id":    sessionID,
		"message_id":    result.AssistantMessage.ID,
		"response":      result.AssistantMessage.Content,
		"context_count": len(result.AssistantMessage.RetrievedContext),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// IngestDocument handles the ingest_document tool
func (h *Handlers) IngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ownerID, err := request.RequireString("owner_id")
	if err != nil {
		return mcp.NewToolResultError("owner_id argument is required and must be a string"), nil
	}
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path argument is required and must be a string"), nil
	}
	mimeType, err := request.RequireString("mime_type")
	if err != nil {
		return mcp.NewToolResultError("mime_type argument is required and must be a string"), nil
	}

	doc, err := h.processor.IngestFile(ctx, ownerID, path, mimeType, nil)
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedFormat) {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported format: %s", mimeType)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"document_id": doc.ID,
		"filename":    doc.Filename,
		"chunk_count": doc.ChunkCount,
		"uploaded_at": doc.UploadedAt.Format(time.RFC3339),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SearchContext handles the search_context tool
func (h *Handlers) SearchContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ownerID, err := request.RequireString("owner_id")
	if err != nil {
		return mcp.NewToolResultError("owner_id argument is required and must be a string"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	maxResults := request.GetInt("max_results", h.topK)

	passages, err := h.retriever.Retrieve(ctx, ownerID, query, maxResults, h.scoreThreshold)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"passages": passages,
		"count":    len(passages),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListSessions handles the list_sessions tool
func (h *Handlers) ListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ownerID, err := request.RequireString("owner_id")
	if err != nil {
		return mcp.NewToolResultError("owner_id argument is required and must be a string"), nil
	}

	sessions, err := h.sessions.ListByOwner(ownerID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sessions: %v", err)), nil
	}

	list := make([]map[string]interface{}, 0, len(sessions))
	for _, session := range sessions {
		list = append(list, map[string]interface{}{
			"session_id":      session.ID,
			"title":           session.Title,
			"created_at":      session.CreatedAt.Format(time.RFC3339),
			"last_message_at": session.LastMessageAt.Format(time.RFC3339),
		})
	}

	responseJSON, err := json.Marshal(map[string]interface{}{"sessions": list})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListDocuments handles the list_documents tool
func (h *Handlers) ListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ownerID, err := request.RequireString("owner_id")
	if err != nil {
		return mcp.NewToolResultError("owner_id argument is required and must be a string"), nil
	}

	docs, err := h.documents.ListByOwner(ownerID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list documents: %v", err)), nil
	}

	list := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		list = append(list, map[string]interface{}{
			"document_id": doc.ID,
			"filename":    doc.Filename,
			"mime_type":   doc.MimeType,
			"chunk_count": doc.ChunkCount,
			"uploaded_at": doc.UploadedAt.Format(time.RFC3339),
		})
	}

	responseJSON, err := json.Marshal(map[string]interface{}{"documents": list})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// DeleteDocument handles the delete_document tool
func (h *Handlers) DeleteDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ownerID, err := request.RequireString("owner_id")
	if err != nil {
		return mcp.NewToolResultError("owner_id argument is required and must be a string"), nil
	}
	documentID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id argument is required and must be a string"), nil
	}

	if _, err := h.documents.Get(ownerID, documentID); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return mcp.NewToolResultError("document not found"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load document: %v", err)), nil
	}

	if err := h.processor.DeleteDocument(ctx, ownerID, documentID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("deletion failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(map[string]interface{}{"deleted": documentID})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
