// ABOUTME: Tests for the ingestion pipeline with in-memory collaborators
// ABOUTME: Covers chunk metadata, format rejection, and delete propagation
package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/atlascareer/atlas/internal/models"
	"github.com/atlascareer/atlas/internal/vectorstore"
	"github.com/atlascareer/atlas/internal/vectorstore/memory"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) Dimension() int { return 3 }

type fakeRegistry struct {
	docs    map[string]*models.DocumentInfo
	saveErr error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{docs: make(map[string]*models.DocumentInfo)}
}

func (f *fakeRegistry) SaveDocument(doc *models.DocumentInfo) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeRegistry) DeleteDocument(ownerID, documentID string) error {
	delete(f.docs, documentID)
	return nil
}

func (f *fakeRegistry) DeleteDocumentsByOwner(ownerID string) error {
	for id, doc := range f.docs {
		if doc.OwnerID == ownerID {
			delete(f.docs, id)
		}
	}
	return nil
}

func TestIngestText_IndexesChunksWithMetadata(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := memory.NewStore(3)
	registry := newFakeRegistry()
	p := NewProcessor(embedder, store, registry, 40)

	text := "I worked as a barista for two years. I then studied data science. Now I build dashboards."
	doc, err := p.IngestText(context.Background(), "alice", text, "resume.txt", "text/plain", nil)
	if err != nil {
		t.Fatalf("IngestText() error = %v", err)
	}

	if doc.ChunkCount < 2 {
		t.Fatalf("ChunkCount = %d, want several chunks for a multi-sentence text", doc.ChunkCount)
	}
	if embedder.calls != doc.ChunkCount {
		t.Errorf("embedder called %d times, want once per chunk (%d)", embedder.calls, doc.ChunkCount)
	}
	if _, ok := registry.docs[doc.ID]; !ok {
		t.Error("document not registered")
	}

	matches, err := store.Query(context.Background(), "alice", []float32{1, 0, 0}, doc.ChunkCount)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(matches) != doc.ChunkCount {
		t.Fatalf("stored %d records, want %d", len(matches), doc.ChunkCount)
	}
	seen := make(map[string]bool)
	for _, m := range matches {
		if m.Metadata[vectorstore.MetaOwnerID] != "alice" {
			t.Errorf("record owner = %q, want alice", m.Metadata[vectorstore.MetaOwnerID])
		}
		if m.Metadata[vectorstore.MetaDocumentID] != doc.ID {
			t.Errorf("record document = %q, want %q", m.Metadata[vectorstore.MetaDocumentID], doc.ID)
		}
		if m.Metadata[vectorstore.MetaText] == "" {
			t.Error("record has no text metadata")
		}
		idx, err := strconv.Atoi(m.Metadata[vectorstore.MetaChunkIndex])
		if err != nil || idx < 0 || idx >= doc.ChunkCount {
			t.Errorf("chunk index = %q, want 0..%d", m.Metadata[vectorstore.MetaChunkIndex], doc.ChunkCount-1)
		}
		seen[m.Metadata[vectorstore.MetaChunkIndex]] = true
	}
	if len(seen) != doc.ChunkCount {
		t.Errorf("chunk indexes not distinct: %v", seen)
	}
}

func TestIngestText_ExtraMetadataCannotOverrideBookkeeping(t *testing.T) {
	store := memory.NewStore(3)
	p := NewProcessor(&fakeEmbedder{}, store, newFakeRegistry(), 0)

	extra := map[string]string{
		"source":                "upload",
		vectorstore.MetaText:    "forged",
		vectorstore.MetaOwnerID: "mallory",
	}
	doc, err := p.IngestText(context.Background(), "alice", "One sentence here.", "a.txt", "text/plain", extra)
	if err != nil {
		t.Fatalf("IngestText() error = %v", err)
	}

	matches, err := store.Query(context.Background(), "alice", []float32{1, 0, 0}, doc.ChunkCount)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("no records stored")
	}
	m := matches[0]
	if m.Metadata["source"] != "upload" {
		t.Errorf("extra metadata dropped: %v", m.Metadata)
	}
	if m.Metadata[vectorstore.MetaText] == "forged" {
		t.Error("extra metadata overwrote chunk text")
	}
	if m.Metadata[vectorstore.MetaOwnerID] != "alice" {
		t.Errorf("owner = %q, want alice", m.Metadata[vectorstore.MetaOwnerID])
	}
}

func TestIngestText_EmbeddingFailureStoresNothing(t *testing.T) {
	store := memory.NewStore(3)
	registry := newFakeRegistry()
	p := NewProcessor(&fakeEmbedder{err: errors.New("provider down")}, store, registry, 0)

	_, err := p.IngestText(context.Background(), "alice", "Some text.", "a.txt", "text/plain", nil)
	if err == nil {
		t.Fatal("IngestText() succeeded, want error")
	}
	matches, _ := store.Query(context.Background(), "alice", []float32{1, 0, 0}, 10)
	if len(matches) != 0 {
		t.Errorf("stored %d records despite embedding failure", len(matches))
	}
	if len(registry.docs) != 0 {
		t.Error("document registered despite embedding failure")
	}
}

func TestIngestFile_TextAndMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte("A short note. Another one."), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewProcessor(&fakeEmbedder{}, memory.NewStore(3), newFakeRegistry(), 0)
	doc, err := p.IngestFile(context.Background(), "alice", path, "text/markdown", nil)
	if err != nil {
		t.Fatalf("IngestFile() error = %v", err)
	}
	if doc.Filename != "notes.md" {
		t.Errorf("Filename = %q, want notes.md", doc.Filename)
	}
	if doc.ChunkCount == 0 {
		t.Error("ChunkCount = 0, want at least one chunk")
	}
}

func TestIngestFile_UnsupportedFormat(t *testing.T) {
	p := NewProcessor(&fakeEmbedder{}, memory.NewStore(3), newFakeRegistry(), 0)

	_, err := p.IngestFile(context.Background(), "alice", "cv.docx", "application/msword", nil)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("IngestFile() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDeleteDocument_RemovesVectorsAndRegistryEntry(t *testing.T) {
	store := memory.NewStore(3)
	registry := newFakeRegistry()
	p := NewProcessor(&fakeEmbedder{}, store, registry, 0)

	keep, err := p.IngestText(context.Background(), "alice", "Keep this sentence.", "keep.txt", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	drop, err := p.IngestText(context.Background(), "alice", "Drop this sentence.", "drop.txt", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.DeleteDocument(context.Background(), "alice", drop.ID); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}

	matches, _ := store.Query(context.Background(), "alice", []float32{1, 0, 0}, 10)
	for _, m := range matches {
		if m.Metadata[vectorstore.MetaDocumentID] == drop.ID {
			t.Error("deleted document's vectors still present")
		}
	}
	if _, ok := registry.docs[drop.ID]; ok {
		t.Error("deleted document still registered")
	}
	if _, ok := registry.docs[keep.ID]; !ok {
		t.Error("unrelated document was removed")
	}
}

func TestDeleteOwner_RemovesEverything(t *testing.T) {
	store := memory.NewStore(3)
	registry := newFakeRegistry()
	p := NewProcessor(&fakeEmbedder{}, store, registry, 0)

	if _, err := p.IngestText(context.Background(), "alice", "Alice's text.", "a.txt", "text/plain", nil); err != nil {
		t.Fatal(err)
	}
	bobDoc, err := p.IngestText(context.Background(), "bob", "Bob's text.", "b.txt", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.DeleteOwner(context.Background(), "alice"); err != nil {
		t.Fatalf("DeleteOwner() error = %v", err)
	}

	matches, _ := store.Query(context.Background(), "alice", []float32{1, 0, 0}, 10)
	if len(matches) != 0 {
		t.Errorf("alice still has %d vectors", len(matches))
	}
	if _, ok := registry.docs[bobDoc.ID]; !ok {
		t.Error("bob's document was removed")
	}
}
