package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fitledger/fitledger/internal/engine"
)

// NewVerifierCommand creates the verifier command group.
func NewVerifierCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verifier",
		Short: "Manage the authorized verifier set",
	}

	cmd.AddCommand(newVerifierMutationCommand(rootOpts, "add",
		"Authorize a principal as verifier",
		func(e *engine.Engine, ctx context.Context, caller, principal string) error {
			return e.AddVerifier(ctx, caller, principal)
		}))
	cmd.AddCommand(newVerifierMutationCommand(rootOpts, "remove",
		"Revoke a principal's verifier authority",
		func(e *engine.Engine, ctx context.Context, caller, principal string) error {
			return e.RemoveVerifier(ctx, caller, principal)
		}))

	return cmd
}

func newVerifierMutationCommand(rootOpts *RootOptions, verb, short string,
	mutate func(*engine.Engine, context.Context, string, string) error) *cobra.Command {
	var caller string

	cmd := &cobra.Command{
		Use:           verb + " <principal>",
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				if err := mutate(e, context.Background(), caller, args[0]); err != nil {
					return rejectionError(err)
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				return f.Successf(map[string]interface{}{"verifier": args[0]},
					"verifier %s: %s", verb, args[0])
			})
		},
	}

	cmd.Flags().StringVar(&caller, "caller", "", "calling principal, must be the owner (required)")
	_ = cmd.MarkFlagRequired("caller")

	return cmd
}
