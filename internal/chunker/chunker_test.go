// ABOUTME: Tests for sentence-aligned text chunking
// ABOUTME: Covers boundaries, oversized sentences, and reconstruction
package chunker

import (
	"strings"
	"testing"
)

func TestChunk_EmptyInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"whitespace only", "   "},
		{"tabs and newlines", "\t\n\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunk(tt.text, 500)
			if len(chunks) != 0 {
				t.Errorf("Chunk(%q) = %v, want no chunks", tt.text, chunks)
			}
		})
	}
}

func TestChunk_TinyLimit(t *testing.T) {
	chunks := Chunk("A. B. C.", 2)

	want := []string{"A.", "B.", "C."}
	if len(chunks) != len(want) {
		t.Fatalf("Chunk() = %v, want %v", chunks, want)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk[%d] = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestChunk_SingleSentenceFits(t *testing.T) {
	text := "This is a simple sentence."
	chunks := Chunk(text, 500)

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("chunk = %q, want %q", chunks[0], text)
	}
}

func TestChunk_OversizedSentenceKeptWhole(t *testing.T) {
	// One sentence longer than the limit must come back as one oversized
	// chunk, never split mid-sentence.
	text := "This single run-on sentence is much longer than the configured chunk size limit allows."
	chunks := Chunk(text, 20)

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 oversized chunk, got %d: %v", len(chunks), chunks)
	}
	if len(chunks[0]) <= 20 {
		t.Errorf("chunk length = %d, expected it to exceed the limit", len(chunks[0]))
	}
}

func TestChunk_NoTerminalPunctuation(t *testing.T) {
	text := "no punctuation here at all"
	chunks := Chunk(text, 500)

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk for unpunctuated text, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("chunk = %q, want %q", chunks[0], text)
	}
}

func TestChunk_GreedyAccumulation(t *testing.T) {
	text := "First sentence here. Second sentence follows. Third one too."
	chunks := Chunk(text, 50)

	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d: %v", len(chunks), chunks)
	}
	for i, c := range chunks {
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk[%d] is empty", i)
		}
	}
}

func TestChunk_Reconstruction(t *testing.T) {
	// Joining all chunks and stripping whitespace must reproduce the
	// original sentence sequence: nothing lost, nothing duplicated.
	texts := []string{
		"One. Two. Three. Four. Five.",
		"Mixed punctuation! Does it work? Yes it does.",
		"A short one. " + strings.Repeat("A fairly long sentence to force chunk boundaries. ", 10),
	}

	normalize := func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	}

	for _, text := range texts {
		for _, size := range []int{10, 50, 500} {
			chunks := Chunk(text, size)
			got := normalize(strings.Join(chunks, " "))
			want := normalize(text)
			if got != want {
				t.Errorf("size %d: reconstruction mismatch\ngot:  %q\nwant: %q", size, got, want)
			}
		}
	}
}

func TestChunk_NoEmptyChunks(t *testing.T) {
	chunks := Chunk("First. Second. Third. Fourth.", 15)
	for i, c := range chunks {
		if c == "" {
			t.Errorf("chunk[%d] is empty", i)
		}
		if c != strings.TrimSpace(c) {
			t.Errorf("chunk[%d] = %q has surrounding whitespace", i, c)
		}
	}
}

func BenchmarkChunk(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("This sentence pads out a realistic resume paragraph with detail. ")
	}
	text := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Chunk(text, DefaultMaxChunkSize)
	}
}
