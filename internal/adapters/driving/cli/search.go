package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search fatawa",
	Long: `Search fatawa by text. The query is sent to the service exactly as
typed; an empty query ("") is allowed and left to the service to interpret.
Ordering and ranking come from the service.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	outcome := documentService.SearchByQuery(cmd.Context(), args[0])
	if !outcome.Ok() {
		return outcomeError("search", outcome.Err())
	}

	results := outcome.Value()
	if searchJSON {
		return printJSON(cmd, results)
	}

	if !results.IsEmpty() {
		cmd.Println("Results:")
		cmd.Println()
	}
	printDocumentTable(cmd, results, "No results found.")
	return nil
}
