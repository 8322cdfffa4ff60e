// ABOUTME: CLI command to ingest documents into the knowledge base
// ABOUTME: Detects MIME type from the file extension unless overridden
package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var ingestMime string

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a document for retrieval",
		Long: `Ingest a document into the owner's knowledge base.

The document is chunked into sentence-aligned pieces, each chunk is
embedded, and the vectors are indexed for retrieval during chat.

Supported formats: PDF, plain text, markdown.

Examples:
  atlas ingest resume.pdf
  atlas ingest --owner alice notes.md
  atlas ingest --mime text/plain exported.dat`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestMime, "mime", "", "MIME type override (detected from extension by default)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	mimeType := ingestMime
	if mimeType == "" {
		mimeType = detectMimeType(path)
	}
	if mimeType == "" {
		return fmt.Errorf("cannot detect MIME type for %s, use --mime", path)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.processor.IngestFile(cmd.Context(), ownerID, path, mimeType, nil)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %s (%d chunks) as %s\n", doc.Filename, doc.ChunkCount, doc.ID)
	}
	return nil
}

// detectMimeType maps common file extensions to the supported MIME types
func detectMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".md", ".markdown":
		return "text/markdown"
	}
	return ""
}
