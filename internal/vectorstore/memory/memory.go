// ABOUTME: In-memory brute-force cosine similarity vector store
// ABOUTME: Deterministic backend for tests and local single-process runs
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/atlascareer/atlas/internal/vectorstore"
)

// Store keeps all records in memory and scans them on every query.
type Store struct {
	mu        sync.RWMutex
	dimension int
	records   map[string]vectorstore.Record
	order     []string // insertion order, keeps tie-breaking stable
}

// NewStore creates an empty store. A positive dimension enables length
// validation on upsert; zero disables it.
func NewStore(dimension int) *Store {
	return &Store{
		dimension: dimension,
		records:   make(map[string]vectorstore.Record),
	}
}

// Upsert inserts or replaces records by ID, stamping the owner into metadata.
func (s *Store) Upsert(ctx context.Context, ownerID string, records []vectorstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		if s.dimension > 0 && len(rec.Values) != s.dimension {
			return fmt.Errorf("%w: vector dimension %d, store expects %d",
				vectorstore.ErrUnavailable, len(rec.Values), s.dimension)
		}
	}
	for _, rec := range records {
		meta := make(map[string]string, len(rec.Metadata)+1)
		for k, v := range rec.Metadata {
			meta[k] = v
		}
		meta[vectorstore.MetaOwnerID] = ownerID
		if _, exists := s.records[rec.ID]; !exists {
			s.order = append(s.order, rec.ID)
		}
		s.records[rec.ID] = vectorstore.Record{ID: rec.ID, Values: rec.Values, Metadata: meta}
	}
	return nil
}

// Query scans the owner's records and returns the topK by descending cosine
// similarity. Returns fewer than topK when the owner has fewer records.
func (s *Store) Query(ctx context.Context, ownerID string, vector []float32, topK int) ([]vectorstore.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 {
		return nil, nil
	}

	var matches []vectorstore.Match
	for _, id := range s.order {
		rec, ok := s.records[id]
		if !ok || rec.Metadata[vectorstore.MetaOwnerID] != ownerID {
			continue
		}
		matches = append(matches, vectorstore.Match{
			ID:       rec.ID,
			Score:    cosineSimilarity(vector, rec.Values),
			Metadata: rec.Metadata,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// DeleteByOwner removes every record stored under ownerID.
func (s *Store) DeleteByOwner(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteWhere(func(rec vectorstore.Record) bool {
		return rec.Metadata[vectorstore.MetaOwnerID] == ownerID
	})
	return nil
}

// DeleteByDocument removes the owner's records for one document.
func (s *Store) DeleteByDocument(ctx context.Context, ownerID, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteWhere(func(rec vectorstore.Record) bool {
		return rec.Metadata[vectorstore.MetaOwnerID] == ownerID &&
			rec.Metadata[vectorstore.MetaDocumentID] == documentID
	})
	return nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) deleteWhere(match func(vectorstore.Record) bool) {
	kept := s.order[:0]
	for _, id := range s.order {
		rec, ok := s.records[id]
		if ok && match(rec) {
			delete(s.records, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

// cosineSimilarity works for non-normalized vectors too, so test fixtures
// do not have to be unit length.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

var _ vectorstore.Store = (*Store)(nil)
