// ABOUTME: CLI commands to list and delete ingested documents
// ABOUTME: Deleting a document also removes every vector created from it
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewDocumentsCmd creates the documents command group
func NewDocumentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Manage ingested documents",
	}

	cmd.AddCommand(newDocumentsListCmd())
	cmd.AddCommand(newDocumentsDeleteCmd())

	return cmd
}

func newDocumentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ingested documents, newest first",
		RunE:  runDocumentsList,
	}
}

func newDocumentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document and its vectors",
		Args:  cobra.ExactArgs(1),
		RunE:  runDocumentsDelete,
	}
}

func runDocumentsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	docs, err := a.documents.ListByOwner(ownerID)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if len(docs) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No documents ingested yet")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tFILENAME\tCHUNKS\tUPLOADED\n")
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", doc.ID, doc.Filename, doc.ChunkCount, formatTime(doc.UploadedAt))
	}
	return w.Flush()
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	documentID := args[0]
	if _, err := a.documents.Get(ownerID, documentID); err != nil {
		return fmt.Errorf("loading document: %w", err)
	}
	if err := a.processor.DeleteDocument(cmd.Context(), ownerID, documentID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted document %s\n", documentID)
	}
	return nil
}
