// Package cli wires the redline commands together.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sprite-ai/redline/internal/client"
	"github.com/sprite-ai/redline/internal/config"
	"github.com/sprite-ai/redline/internal/logging"
	"github.com/sprite-ai/redline/internal/samples"
)

// interactive marks commands that own the terminal; their logs are discarded
// unless log.file is set.
const interactive = "interactive"

// Shared state, initialized in PersistentPreRunE.
var (
	v         *viper.Viper
	cfg       *config.Config
	ui        *UI
	logCloser = func() {}

	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "redline",
	Short: "Review contracts against a rule-based review service",
	Long: `redline submits contract text to a review service and shows the
verdict: a risk score, severity-tagged issues and suggested fixes.

Run without a subcommand to open the interactive reviewer.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Args:              cobra.NoArgs,
	Annotations:       map[string]string{interactive: "true"},
	PersistentPreRunE: setup,
	RunE:              runReview,
}

// ExitError carries a process exit code. A nil Err means the code is the
// whole message and nothing should be printed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() { logCloser() }()
	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.config/redline/config.yaml)")
	pf.String("api-url", "", "review service base URL (default "+config.DefaultBaseURL+")")
	pf.String("samples-url", "", "fetch samples from this base URL instead of the built-in ones")
	pf.Duration("timeout", 0, "review request timeout, 0 for none (default 30s)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console, json")
	pf.String("log-file", "", "write logs to this file")

	reviewFlags(rootCmd)

	rootCmd.AddCommand(reviewCmd, checkCmd, healthCmd, serveCmd, configCmd, versionCmd)
}

var flagKeys = map[string]string{
	"api-url":     "api.base_url",
	"samples-url": "samples.base_url",
	"timeout":     "review.timeout",
	"log-level":   "log.level",
	"log-format":  "log.format",
	"log-file":    "log.file",
}

func setup(cmd *cobra.Command, _ []string) error {
	v = viper.New()
	config.Prepare(v, cfgFile)
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}

	var err error
	cfg, err = config.Load(v)
	if err != nil {
		return err
	}

	fallback := logging.Stderr()
	if cmd.Annotations[interactive] == "true" {
		fallback = nil
	}
	closer, err := logging.Setup(cfg.Log, fallback)
	if err != nil {
		return err
	}
	logCloser = closer

	ui = NewUI(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return nil
}

func newClient() *client.Client {
	return client.New(cfg.API.BaseURL)
}

func newLoader() samples.Loader {
	return samples.NewLoader(cfg.Samples.BaseURL)
}
