package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fitledger/fitledger/internal/engine"
)

// AdvanceOptions holds flags for the advance command.
type AdvanceOptions struct {
	*RootOptions
	Caller string
	By     uint64
}

// NewAdvanceCommand creates the advance command.
func NewAdvanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AdvanceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Advance the logical clock",
		Long: `Advance the ledger's logical clock by a positive number of ticks.

Only the owner may advance the clock. One day is 144 ticks; streaks
and challenge windows are measured against this clock.

Example:
  fitledger advance --caller gym-operator --by 144`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(opts.RootOptions, func(e *engine.Engine) error {
				height, err := e.AdvanceHeight(context.Background(), opts.Caller, opts.By)
				if err != nil {
					return rejectionError(err)
				}
				f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
				return f.Successf(map[string]interface{}{"height": height},
					"height advanced to %d", height)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Caller, "caller", "", "calling principal (required)")
	_ = cmd.MarkFlagRequired("caller")
	cmd.Flags().Uint64Var(&opts.By, "by", 1, "ticks to advance")

	return cmd
}
