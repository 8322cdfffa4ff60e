// ABOUTME: Retriever turns a query into ranked, threshold-filtered passages
// ABOUTME: Embeds the query and searches the owner's slice of the vector store
package retriever

import (
	"context"

	"github.com/atlascareer/atlas/internal/embedding"
	"github.com/atlascareer/atlas/internal/vectorstore"
)

// Retriever fetches relevant passage texts for a query, scoped to one owner.
type Retriever struct {
	embedder embedding.Embedder
	store    vectorstore.Store
}

// New creates a Retriever over the given embedder and store.
func New(embedder embedding.Embedder, store vectorstore.Store) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve embeds queryText, searches the owner's vectors, keeps matches with
// score strictly above threshold, drops matches with empty text metadata, and
// returns the passage texts in the store's descending-score order.
//
// The threshold trades recall against irrelevant-context pollution and is
// deliberately per-call; callers pass the configured default or their own.
// An empty result is a normal outcome, not an error. Embedding and store
// failures bubble up unchanged.
func (r *Retriever) Retrieve(ctx context.Context, ownerID, queryText string, topK int, threshold float32) ([]string, error) {
	vector, err := r.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, err
	}

	matches, err := r.store.Query(ctx, ownerID, vector, topK)
	if err != nil {
		return nil, err
	}

	passages := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Score <= threshold {
			continue
		}
		text := m.Metadata[vectorstore.MetaText]
		if text == "" {
			continue
		}
		passages = append(passages, text)
	}
	return passages, nil
}
