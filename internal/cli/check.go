package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/redline/internal/controller"
	"github.com/sprite-ai/redline/internal/input"
	"github.com/sprite-ai/redline/internal/model"
	"github.com/sprite-ai/redline/internal/render"
	"github.com/sprite-ai/redline/internal/samples"
)

// Exit codes of the check command.
const (
	ExitClean    = 0
	ExitWarnings = 1
	ExitHighRisk = 2
	ExitFailed   = 3
)

var checkCmd = &cobra.Command{
	Use:   "check [file|-]",
	Short: "Review a contract and print the verdict (non-interactive)",
	Long: `Submit one contract to the review service and print the result.
Useful for scripts and CI. Read from a file, from stdin with "-", or use
one of the built-in samples with --sample.

Exit codes:
  0  no issues found
  1  only medium or low issues
  2  at least one high issue
  3  the review request failed`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("jurisdiction", "j", "", "jurisdiction to review against (default from config)")
	checkCmd.Flags().String("sample", "", "review a sample: "+strings.Join(samples.Names(), ", "))
	checkCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown, html, table")
	checkCmd.Flags().Bool("raw", false, "include the raw response in text output")
	checkCmd.Flags().Bool("fixes", false, "expand suggested fixes in text output")
	checkCmd.Flags().Int("width", 100, "card width for text output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, _ := cmd.Flags().GetString("format")
	write, err := formatter(cmd, format)
	if err != nil {
		return err
	}

	buf := input.NewBuffer()
	if err := loadCheckInput(ctx, cmd, args, buf); err != nil {
		return err
	}

	jur, _ := cmd.Flags().GetString("jurisdiction")
	if jur == "" {
		jur = cfg.Review.Jurisdiction
	}

	ctrl := controller.New(newClient(), buf, cfg.Review.Timeout)
	o, err := ctrl.Submit(ctx, jur)
	if err != nil {
		return err
	}

	v := ctrl.View()
	if err := write(cmd.OutOrStdout(), v, o.Raw); err != nil {
		return fmt.Errorf("writing %s output: %w", format, err)
	}

	code := checkExitCode(o)
	switch code {
	case ExitFailed:
		ui.Error("review failed: %s", v.Summary[0].Text)
	case ExitHighRisk:
		ui.Warning("highest severity: %s", SeverityColor(model.SeverityHigh))
	}
	if code != ExitClean {
		return &ExitError{Code: code}
	}
	return nil
}

func loadCheckInput(ctx context.Context, cmd *cobra.Command, args []string, buf *input.Buffer) error {
	sample, _ := cmd.Flags().GetString("sample")
	switch {
	case sample != "" && len(args) > 0:
		return errors.New("pass either a file or --sample, not both")
	case sample != "":
		buf.LoadSample(ctx, newLoader(), sample)
	case len(args) == 0:
		return errors.New("nothing to check: pass a file, - for stdin, or --sample")
	case args[0] == "-":
		return buf.LoadReader(cmd.InOrStdin())
	default:
		if !buf.LoadFile(args[0]) {
			ui.Warning("could not read %s", args[0])
		}
	}
	return nil
}

type writeFunc func(w io.Writer, v render.View, raw []byte) error

func formatter(cmd *cobra.Command, format string) (writeFunc, error) {
	switch strings.ToLower(format) {
	case "text":
		showRaw, _ := cmd.Flags().GetBool("raw")
		fixes, _ := cmd.Flags().GetBool("fixes")
		width, _ := cmd.Flags().GetInt("width")
		opts := render.TextOptions{Width: width, ExpandFixes: fixes, ShowRaw: showRaw}
		return func(w io.Writer, v render.View, _ []byte) error {
			return render.Text(w, v, opts)
		}, nil
	case "json":
		return render.JSON, nil
	case "markdown", "md":
		return func(w io.Writer, v render.View, _ []byte) error { return render.Markdown(w, v) }, nil
	case "html":
		return func(w io.Writer, v render.View, _ []byte) error { return render.HTML(w, v) }, nil
	case "table":
		return func(w io.Writer, v render.View, _ []byte) error { return render.Table(w, v) }, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json, markdown, html or table)", format)
	}
}

// checkExitCode grades an outcome for scripts.
func checkExitCode(o model.Outcome) int {
	if o.Failed() || o.Result == nil {
		return ExitFailed
	}
	r := o.Result
	high := r.Summary.High > 0
	found := r.Summary.Total() > 0 || len(r.Issues) > 0
	for _, issue := range r.Issues {
		if issue.Severity == model.SeverityHigh {
			high = true
		}
	}
	switch {
	case high:
		return ExitHighRisk
	case found:
		return ExitWarnings
	default:
		return ExitClean
	}
}
