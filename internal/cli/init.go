package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fitledger/fitledger/internal/config"
	"github.com/fitledger/fitledger/internal/engine"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Genesis string
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new ledger from a genesis file",
		Long: `Initialize a new ledger from a CUE genesis file.

The genesis file names the owner principal and, optionally, the
initial verifier set:

  owner: "gym-operator"
  verifiers: ["coach-a", "coach-b"]

Initializing an already initialized ledger fails.

Example:
  fitledger init --db ./fitledger.db --genesis ./genesis.cue`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Genesis, "genesis", "", "path to CUE genesis file (required)")
	_ = cmd.MarkFlagRequired("genesis")

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	gen, err := config.LoadGenesis(opts.Genesis)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load genesis", err)
	}

	return withEngine(opts.RootOptions, func(e *engine.Engine) error {
		if err := e.Init(context.Background(), gen); err != nil {
			return rejectionError(err)
		}

		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return f.Successf(map[string]interface{}{
			"owner":     gen.Owner,
			"verifiers": gen.Verifiers,
		}, "initialized ledger %s (owner %s, %d verifiers)", opts.Database, gen.Owner, len(gen.Verifiers))
	})
}
