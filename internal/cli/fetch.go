package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/i474232898/location-weather/internal/config"
	"github.com/i474232898/location-weather/internal/lookup"
)

// errLookupFailed makes the process exit non-zero after the failed
// snapshot has been rendered.
var errLookupFailed = errors.New("lookup failed")

func newFetchCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "run one lookup and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(output, isatty.IsTerminal(os.Stdout.Fd()))
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			snap, err := newOrchestrator(cfg).Run(ctx)
			if err != nil {
				return err
			}
			return report(cmd, snap, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: text, json or yaml (default text on a terminal, json otherwise)")
	return cmd
}

func report(cmd *cobra.Command, snap lookup.Snapshot, format string) error {
	if err := render(cmd.OutOrStdout(), snap, format); err != nil {
		return fmt.Errorf("render result: %w", err)
	}
	if snap.Status == lookup.StatusFailed {
		cmd.SilenceErrors = true
		return errLookupFailed
	}
	return nil
}
