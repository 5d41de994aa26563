package cli

import (
	"github.com/spf13/cobra"

	"github.com/sprite-ai/redline/internal/health"
	"github.com/sprite-ai/redline/internal/model"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the review service is up",
	Long: `Probe the review service once and print its status. Exits 1 when the
service is offline.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mon := health.NewMonitor(newClient())
		status := mon.Probe(cmd.Context())
		badge := mon.Badge()

		if status != model.HealthOK {
			ui.Error("%s (%s)", badge.Text, cfg.API.BaseURL)
			return &ExitError{Code: 1}
		}
		ui.Success("%s (%s)", badge.Text, cfg.API.BaseURL)
		return nil
	},
}
