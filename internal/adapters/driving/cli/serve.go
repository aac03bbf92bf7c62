package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resume-ats/internal/adapters/driving/api"
)

var (
	serveAddr      string
	serveBodyLimit int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the analyzer over HTTP.

  GET  /check/healthy
  GET  /v1/presets
  POST /v1/analyze   multipart: file, mode, question, k
  POST /v1/retrieve  multipart: file, mode, question, k

The LLM key is resolved once at startup, from --api-key, settings or the
provider's environment variable.`,
	Args:        cobra.NoArgs,
	RunE:        runServe,
	Annotations: map[string]string{checkServicesAnnotation: "true"},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "127.0.0.1:8080", "listen address")
	serveCmd.Flags().IntVar(&serveBodyLimit, "max-upload", api.DefaultBodyLimit, "largest accepted upload in bytes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := analyzer(cmd, true)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	server := api.NewServer(svc, api.Config{BodyLimit: serveBodyLimit})
	cmd.Printf("Listening on http://%s\n", serveAddr)
	return server.Run(ctx, serveAddr)
}
