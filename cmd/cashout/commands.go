package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pow3r/cashout/internal/config"
	"github.com/pow3r/cashout/internal/smoke"
	"github.com/pow3r/cashout/pkg/cashout"
)

// exitError carries a process exit code out of a command without calling
// os.Exit inside it.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func isExitError(err error) (int, bool) {
	if e, ok := err.(*exitError); ok {
		return e.code, true
	}
	return 0, false
}

func newRootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "cashout",
		Short:         "pow3r.cashout workflow dashboard",
		Version:       config.GetSystemSettingString(config.VERSION),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(out)
	root.AddCommand(newServeCommand())
	root.AddCommand(newSmokeCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard, the wizard and the JSON API",
		Long: `Serve the dashboard, the New Post Flow wizard and the JSON API.

The database, port and CORS origin come from CASHOUT_* environment
variables. By default flows live in an in-memory SQLite database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return cashout.Start(ctx, nil)
		},
	}
}

func newSmokeCommand() *cobra.Command {
	var target, suitePath string
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run end-to-end checks against a deployment",
		Long: `Run end-to-end checks against a deployment and print a summary.

--target is local, live or an http(s) URL. local and live resolve through
CASHOUT_SMOKE_LOCAL_URL and CASHOUT_SMOKE_LIVE_URL. A YAML --suite replaces
the built-in checks. Exits with status 1 when any check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmoke(cmd.Context(), cmd.OutOrStdout(), target, suitePath)
		},
	}
	cmd.Flags().StringVar(&target, "target", "local", "local, live or a base URL")
	cmd.Flags().StringVar(&suitePath, "suite", "", "YAML suite file")
	return cmd
}

func runSmoke(ctx context.Context, out io.Writer, target, suitePath string) error {
	loader := smoke.NewLoader()
	var (
		suite smoke.Suite
		err   error
	)
	if suitePath != "" {
		suite, err = loader.LoadFromFile(suitePath)
	} else {
		suite, err = loader.Load()
	}
	if err != nil {
		return err
	}
	if suite.BaseURL == "" || target != "local" {
		baseURL, err := smoke.ResolveTarget(target)
		if err != nil {
			return err
		}
		suite.BaseURL = baseURL
	}

	report := smoke.NewRunner(suite.Timeout).Run(ctx, suite)
	report.Render(out)
	if report.Failed() > 0 {
		return &exitError{code: 1}
	}
	return nil
}
