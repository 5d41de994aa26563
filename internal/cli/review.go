package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/redline/internal/controller"
	"github.com/sprite-ai/redline/internal/health"
	"github.com/sprite-ai/redline/internal/input"
	"github.com/sprite-ai/redline/internal/samples"
	"github.com/sprite-ai/redline/internal/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Open the interactive reviewer",
	Long: `Open a terminal UI for reviewing a contract. Paste text into the
editor, open a file, or load one of the sample NDAs, then press C-s.

Examples:
  redline review                      # empty editor
  redline review --file nda.txt       # start with a file
  redline review --sample nda_risky   # start with a sample`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{interactive: "true"},
	RunE:        runReview,
}

func init() {
	reviewFlags(reviewCmd)
}

func reviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("jurisdiction", "j", "", "initial jurisdiction (default from config)")
	cmd.Flags().String("file", "", "load this file into the editor")
	cmd.Flags().String("sample", "", "load a sample into the editor: "+strings.Join(samples.Names(), ", "))
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jur, _ := cmd.Flags().GetString("jurisdiction")
	if jur == "" {
		jur = cfg.Review.Jurisdiction
	}

	c := newClient()
	loader := newLoader()
	buf := input.NewBuffer()

	if name, _ := cmd.Flags().GetString("sample"); name != "" {
		buf.LoadSample(ctx, loader, name)
	}
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		buf.LoadFile(path)
	}

	res, err := tui.Run(ctx, tui.Options{
		Controller:    controller.New(c, buf, cfg.Review.Timeout),
		Monitor:       health.NewMonitor(c),
		Loader:        loader,
		Jurisdictions: withJurisdiction(cfg.Review.Jurisdictions, jur),
		Jurisdiction:  jur,
	})
	if err != nil {
		return fmt.Errorf("running reviewer: %w", err)
	}

	if recap := res.Recap(); recap != "" {
		fmt.Fprint(cmd.OutOrStdout(), recap)
	}
	return nil
}

// withJurisdiction appends j to the options when it is not already listed.
func withJurisdiction(options []string, j string) []string {
	for _, o := range options {
		if o == j {
			return options
		}
	}
	return append(append([]string(nil), options...), j)
}
