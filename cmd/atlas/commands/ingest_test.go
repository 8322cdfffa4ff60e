// ABOUTME: Tests for the ingest command's MIME type detection
// ABOUTME: Verifies extension mapping for the supported formats

package commands

import "testing"

func TestDetectMimeType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"resume.pdf", "application/pdf"},
		{"RESUME.PDF", "application/pdf"},
		{"notes.txt", "text/plain"},
		{"notes.md", "text/markdown"},
		{"notes.markdown", "text/markdown"},
		{"archive.docx", ""},
		{"noextension", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := detectMimeType(tt.path); got != tt.want {
				t.Errorf("detectMimeType(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
