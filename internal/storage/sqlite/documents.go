// ABOUTME: Document registry storage operations for SQLite
// ABOUTME: Tracks which documents each owner has ingested
package sqlite

import (
	"database/sql"
	"errors"

	"github.com/atlascareer/atlas/internal/models"
)

// DocumentStore handles document registry persistence
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// SaveDocument inserts or updates a registry entry
func (s *DocumentStore) SaveDocument(doc *models.DocumentInfo) error {
	_, err := s.db.Exec(`
		INSERT INTO documents (id, owner_id, filename, mime_type, chunk_count, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			mime_type = excluded.mime_type,
			chunk_count = excluded.chunk_count
	`, doc.ID, doc.OwnerID, doc.Filename, doc.MimeType, doc.ChunkCount, doc.UploadedAt)
	return err
}

// Get retrieves a document entry by ID, scoped to its owner
func (s *DocumentStore) Get(ownerID, documentID string) (*models.DocumentInfo, error) {
	var doc models.DocumentInfo
	err := s.db.QueryRow(`
		SELECT id, owner_id, filename, mime_type, chunk_count, uploaded_at
		FROM documents
		WHERE id = ? AND owner_id = ?
	`, documentID, ownerID).Scan(&doc.ID, &doc.OwnerID, &doc.Filename,
		&doc.MimeType, &doc.ChunkCount, &doc.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByOwner returns the owner's documents, newest first
func (s *DocumentStore) ListByOwner(ownerID string) ([]*models.DocumentInfo, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, filename, mime_type, chunk_count, uploaded_at
		FROM documents
		WHERE owner_id = ?
		ORDER BY uploaded_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs []*models.DocumentInfo
	for rows.Next() {
		var doc models.DocumentInfo
		if err := rows.Scan(&doc.ID, &doc.OwnerID, &doc.Filename,
			&doc.MimeType, &doc.ChunkCount, &doc.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// DeleteDocument removes one registry entry
func (s *DocumentStore) DeleteDocument(ownerID, documentID string) error {
	_, err := s.db.Exec("DELETE FROM documents WHERE id = ? AND owner_id = ?", documentID, ownerID)
	return err
}

// DeleteDocumentsByOwner removes all of an owner's registry entries
func (s *DocumentStore) DeleteDocumentsByOwner(ownerID string) error {
	_, err := s.db.Exec("DELETE FROM documents WHERE owner_id = ?", ownerID)
	return err
}
