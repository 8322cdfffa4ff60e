// ABOUTME: Document ingestion: extract text, chunk, embed, and index per owner
// ABOUTME: Supports PDF, plain text, and markdown uploads
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ledongthuc/pdf"

	"github.com/atlascareer/atlas/internal/chunker"
	"github.com/atlascareer/atlas/internal/embedding"
	"github.com/atlascareer/atlas/internal/models"
	"github.com/atlascareer/atlas/internal/vectorstore"
)

// ErrUnsupportedFormat means the document's MIME type has no extractor.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// DocumentRegistry records which documents an owner has ingested.
type DocumentRegistry interface {
	SaveDocument(doc *models.DocumentInfo) error
	DeleteDocument(ownerID, documentID string) error
	DeleteDocumentsByOwner(ownerID string) error
}

// Processor runs the ingestion pipeline: raw file → extracted text → chunks →
// embeddings → vector store records.
type Processor struct {
	embedder     embedding.Embedder
	store        vectorstore.Store
	registry     DocumentRegistry
	maxChunkSize int
}

// NewProcessor creates an ingestion processor.
func NewProcessor(embedder embedding.Embedder, store vectorstore.Store, registry DocumentRegistry, maxChunkSize int) *Processor {
	if maxChunkSize <= 0 {
		maxChunkSize = chunker.DefaultMaxChunkSize
	}
	return &Processor{
		embedder:     embedder,
		store:        store,
		registry:     registry,
		maxChunkSize: maxChunkSize,
	}
}

// IngestFile extracts text from the file at path according to mimeType and
// indexes it under ownerID. Extra metadata is passed through to every record
// unmodified; owner and chunk bookkeeping keys win on collision.
func (p *Processor) IngestFile(ctx context.Context, ownerID, path, mimeType string, extra map[string]string) (*models.DocumentInfo, error) {
	text, err := ExtractText(path, mimeType)
	if err != nil {
		return nil, err
	}
	return p.IngestText(ctx, ownerID, text, filepath.Base(path), mimeType, extra)
}

// IngestText chunks and indexes already-extracted text under ownerID.
func (p *Processor) IngestText(ctx context.Context, ownerID, text, filename, mimeType string, extra map[string]string) (*models.DocumentInfo, error) {
	pieces := chunker.Chunk(text, p.maxChunkSize)
	doc := models.NewDocumentInfo(ownerID, filename, mimeType, len(pieces))
	if len(pieces) == 0 {
		if err := p.registry.SaveDocument(doc); err != nil {
			return nil, fmt.Errorf("registering document: %w", err)
		}
		return doc, nil
	}

	chunks := make([]models.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = models.Chunk{Text: piece, Index: i, OwnerID: ownerID}
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, chunk := range chunks {
		vec, err := p.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d: %w", chunk.Index, err)
		}

		meta := map[string]string{
			vectorstore.MetaText:       chunk.Text,
			vectorstore.MetaChunkIndex: strconv.Itoa(chunk.Index),
			vectorstore.MetaDocumentID: doc.ID,
		}
		for k, v := range extra {
			if _, taken := meta[k]; !taken {
				meta[k] = v
			}
		}

		records[i] = vectorstore.Record{
			ID:       vectorstore.NewRecordID(ownerID),
			Values:   vec,
			Metadata: meta,
		}
	}

	if err := p.store.Upsert(ctx, ownerID, records); err != nil {
		return nil, fmt.Errorf("storing vectors: %w", err)
	}
	if err := p.registry.SaveDocument(doc); err != nil {
		return nil, fmt.Errorf("registering document: %w", err)
	}
	return doc, nil
}

// DeleteDocument removes one document's vectors and its registry entry.
func (p *Processor) DeleteDocument(ctx context.Context, ownerID, documentID string) error {
	if err := p.store.DeleteByDocument(ctx, ownerID, documentID); err != nil {
		return err
	}
	return p.registry.DeleteDocument(ownerID, documentID)
}

// DeleteOwner removes every vector and document entry for an owner.
func (p *Processor) DeleteOwner(ctx context.Context, ownerID string) error {
	if err := p.store.DeleteByOwner(ctx, ownerID); err != nil {
		return err
	}
	return p.registry.DeleteDocumentsByOwner(ownerID)
}

// ExtractText returns the plain text of the file according to its MIME type.
// Callers reject unsupported types before chunking ever starts.
func ExtractText(path, mimeType string) (string, error) {
	switch mimeType {
	case "application/pdf":
		return extractPDF(path)
	case "text/plain", "text/markdown":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	body, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return buf.String(), nil
}
