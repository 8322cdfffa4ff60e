// ABOUTME: Owner-scoped vector storage interface and record types
// ABOUTME: Implemented by the qdrant backend and an in-memory cosine index
package vectorstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Metadata keys stamped or read by every implementation.
const (
	MetaOwnerID    = "owner_id"
	MetaText       = "text"
	MetaChunkIndex = "chunk_index"
	MetaDocumentID = "document_id"
)

// ErrUnavailable means the backing store is unreachable or unconfigured.
// Operations fail closed: partial progress is never reported as success.
var ErrUnavailable = errors.New("vector store unavailable")

// Record is a stored vector with its metadata. Records are created on upsert,
// removed by owner- or document-scoped deletes, and never mutated in place.
type Record struct {
	ID       string
	Values   []float32
	Metadata map[string]string
}

// Match is a single similarity-search hit. Score is cosine similarity in
// [-1, 1]; with unit-length vectors it equals the dot product.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]string
}

// Store is an owner-partitioned nearest-neighbor index.
//
// The owner ID is the sole isolation boundary: Upsert stamps it into every
// record's metadata regardless of what the caller supplied, and Query must
// never return a record stored under a different owner, even when topK
// exceeds the owner's record count.
type Store interface {
	Upsert(ctx context.Context, ownerID string, records []Record) error
	Query(ctx context.Context, ownerID string, vector []float32, topK int) ([]Match, error)
	DeleteByOwner(ctx context.Context, ownerID string) error
	DeleteByDocument(ctx context.Context, ownerID, documentID string) error
}

// NewRecordID derives a unique record ID from the owner plus a random suffix.
func NewRecordID(ownerID string) string {
	return ownerID + "_" + uuid.New().String()
}
