package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	retrieveMode     string
	retrieveQuestion string
	retrieveTopK     int
	retrieveJSON     bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [file]",
	Short: "Show the passages a question would retrieve",
	Long: `Runs loading, chunking, embedding and retrieval without calling the
language model. No LLM API key is needed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().StringVarP(&retrieveMode, "mode", "m", "", "analysis mode (tag, label or 1-6)")
	retrieveCmd.Flags().StringVarP(&retrieveQuestion, "question", "q", "", "custom question (implies --mode custom)")
	retrieveCmd.Flags().IntVarP(&retrieveTopK, "top-k", "k", 0, "number of passages to retrieve (default from settings)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	mode, err := modeFromFlags(retrieveMode, retrieveQuestion)
	if err != nil {
		return err
	}

	svc, err := analyzer(cmd, false)
	if err != nil {
		return err
	}

	req, err := readRequest(args[0], mode, retrieveQuestion, retrieveTopK)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := svc.Retrieve(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if retrieveJSON {
		return writeJSON(out, result)
	}

	fmt.Fprintf(out, "Question: %s\n", result.Question)
	fmt.Fprintf(out, "Pages: %d  Chunks: %d\n\n", result.PagesAnalyzed, result.ChunkCount)
	printContext(out, result.Results)
	return nil
}
