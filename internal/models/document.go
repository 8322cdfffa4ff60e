// ABOUTME: DocumentInfo is the registry entry for an ingested document
// ABOUTME: Links an owner's upload to the vectors created from it
package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentInfo records a successfully ingested document. The raw file is
// owned by the caller; this entry only ties the owner, the source filename,
// and the number of chunks that were embedded and stored.
type DocumentInfo struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewDocumentInfo creates a registry entry with a generated ID.
func NewDocumentInfo(ownerID, filename, mimeType string, chunkCount int) *DocumentInfo {
	return &DocumentInfo{
		ID:         "doc_" + uuid.New().String(),
		OwnerID:    ownerID,
		Filename:   filename,
		MimeType:   mimeType,
		ChunkCount: chunkCount,
		UploadedAt: time.Now().UTC(),
	}
}
