package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc"},
	Short:   "Create, view and list fatawa",
	Long: `Work with fatawa stored by the service.

Documents are immutable once created. Every command needs a signed-in
session; see 'fatawa auth login'.`,
}

var documentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new fatwa",
	Long: `Publish a new fatwa. The service validates the fields and rejects
incomplete records. Running the command twice creates two records.

Example:
  fatawa document create --title "Fasting while travelling" \
    --author "Ibn Baz" --question "..." --answer "..." --topic fasting`,
	Args: cobra.NoArgs,
	RunE: runDocumentCreate,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show a fatwa",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every fatwa",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var (
	documentDraft domain.DocumentDraft
	documentJSON  bool
)

func init() {
	flags := documentCreateCmd.Flags()
	flags.StringVar(&documentDraft.Title, "title", "", "title")
	flags.StringVar(&documentDraft.Author, "author", "", "scholar the answer is attributed to")
	flags.StringVar(&documentDraft.Question, "question", "", "question text")
	flags.StringVar(&documentDraft.Answer, "answer", "", "answer text")
	flags.StringVar(&documentDraft.Topic, "topic", "", "optional topic")

	documentGetCmd.Flags().BoolVar(&documentJSON, "json", false, "output as JSON")
	documentListCmd.Flags().BoolVar(&documentJSON, "json", false, "output as JSON")

	documentCmd.AddCommand(documentCreateCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentListCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentCreate(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	outcome := documentService.Create(cmd.Context(), documentDraft)
	if !outcome.Ok() {
		return outcomeError("create", outcome.Err())
	}

	cmd.Printf("Created document %s\n", outcome.Value())
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	outcome := documentService.GetByID(cmd.Context(), args[0])
	if !outcome.Ok() {
		return outcomeError("get", outcome.Err())
	}

	doc := outcome.Value()
	if documentJSON {
		return printJSON(cmd, doc)
	}
	printDocument(cmd, &doc)
	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	outcome := documentService.ListAll(cmd.Context())
	if !outcome.Ok() {
		return outcomeError("list", outcome.Err())
	}

	docs := outcome.Value()
	if documentJSON {
		return printJSON(cmd, docs)
	}
	printDocumentTable(cmd, docs, "No documents found.")
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printDocument(cmd *cobra.Command, doc *domain.Document) {
	cmd.Printf("ID:       %s\n", doc.ID)
	cmd.Printf("Title:    %s\n", doc.Title)
	cmd.Printf("Author:   %s\n", doc.Author)
	if doc.Topic != "" {
		cmd.Printf("Topic:    %s\n", doc.Topic)
	}
	if doc.Audio != "" {
		cmd.Printf("Audio:    %s\n", doc.Audio)
	}
	cmd.Println()
	cmd.Println("Question:")
	cmd.Println(doc.Question)
	cmd.Println()
	cmd.Println("Answer:")
	cmd.Println(doc.Answer)
}

func printDocumentTable(cmd *cobra.Command, docs []domain.Document, empty string) {
	if len(docs) == 0 {
		cmd.Println(empty)
		return
	}

	for i := range docs {
		// Format: [N] Title - Author (ID)
		title := docs[i].Title
		if title == "" {
			title = docs[i].ID
		}
		cmd.Printf("  [%d] %s", i+1, title)
		if docs[i].Author != "" {
			cmd.Printf(" - %s", docs[i].Author)
		}
		cmd.Printf(" (%s)\n", docs[i].ID)
		if docs[i].Topic != "" {
			cmd.Printf("      Topic: %s\n", docs[i].Topic)
		}
	}
	cmd.Println()
	cmd.Printf("%d document(s)\n", len(docs))
}
