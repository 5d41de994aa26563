package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/redline/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser reviewer",
	Long: `Start an HTTP server hosting the review page. Each browser tab gets
its own review session over a websocket.

Endpoints:
  GET  /                    Review page
  GET  /healthz             Server health check
  GET  /samples/{name}.txt  Built-in sample contracts
  GET  /ws                  Websocket review session
  GET  /api/health          Review service status
  POST /api/review          One-shot review, normalized JSON`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6142, "port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")

	c := newClient()
	listen := fmt.Sprintf("%s:%d", addr, port)
	srv := api.New(listen, api.Deps{
		Reviewer:      c,
		Prober:        c,
		Loader:        newLoader(),
		Jurisdictions: cfg.Review.Jurisdictions,
		Jurisdiction:  cfg.Review.Jurisdiction,
		Timeout:       cfg.Review.Timeout,
	})

	ui.Info("Serving redline at http://%s (review service %s)", listen, cfg.API.BaseURL)
	return srv.Start(cmd.Context())
}
