// ABOUTME: Splits extracted document text into bounded sentence-aligned chunks
// ABOUTME: Greedy accumulation with no overlap between chunks
package chunker

import (
	"regexp"
	"strings"
)

// DefaultMaxChunkSize bounds chunk length in characters.
const DefaultMaxChunkSize = 500

// sentenceRe matches a run of text up to and including terminal punctuation.
var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// Chunk splits text into sentence-aligned chunks of at most maxChunkSize
// characters. Sentences accumulate greedily into the current chunk; when the
// next sentence would overflow a non-empty chunk, the chunk is closed and the
// sentence starts a new one. Text with no detected sentence boundary is
// treated as a single sentence, so one sentence longer than maxChunkSize
// comes back as a single oversized chunk rather than being split mid-sentence.
//
// Chunk is total: any input is valid, and empty input yields no chunks.
func Chunk(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}

	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		sentences = []string{text}
	}

	var chunks []string
	var current strings.Builder

	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+len(sentence) > maxChunkSize {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
			current.WriteString(sentence)
			continue
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(strings.TrimSpace(sentence))
	}

	if strings.TrimSpace(current.String()) != "" {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	return chunks
}
