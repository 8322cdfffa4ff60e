// ABOUTME: Chunk represents a bounded slice of extracted document text
// ABOUTME: The unit of embedding and vector storage during ingestion
package models

// Chunk is a sentence-aligned segment of a document's extracted text.
// A chunk is immutable once created and is embedded exactly once.
//
// Chunks stay within the configured maximum size, with one exception:
// a single sentence longer than the maximum is emitted as one oversized
// chunk rather than split mid-sentence.
type Chunk struct {
	Text    string `json:"text"`
	Index   int    `json:"index"`
	OwnerID string `json:"owner_id"`
}
