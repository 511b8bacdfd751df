package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fitledger/fitledger/internal/engine"
)

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var caller string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register the calling principal as a user",
		Long: `Register the calling principal as a user.

Registration is idempotent: registering an existing user leaves the
account untouched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				if err := e.RegisterUser(context.Background(), caller); err != nil {
					return rejectionError(err)
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				return f.Successf(map[string]interface{}{"user": caller},
					"registered %s", caller)
			})
		},
	}

	cmd.Flags().StringVar(&caller, "caller", "", "calling principal (required)")
	_ = cmd.MarkFlagRequired("caller")

	return cmd
}

// TransferOptions holds flags for the transfer command.
type TransferOptions struct {
	*RootOptions
	Caller string
	To     string
	Amount uint64
}

// NewTransferCommand creates the transfer command.
func NewTransferCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer tokens to another principal",
		Long: `Transfer tokens from the caller's balance to another principal.

The recipient does not need to be registered. Transfers exceeding the
caller's balance are rejected.

Example:
  fitledger transfer --caller alice --to bob --amount 25`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(opts.RootOptions, func(e *engine.Engine) error {
				if err := e.TransferTokens(context.Background(), opts.Caller, opts.To, opts.Amount); err != nil {
					return rejectionError(err)
				}
				f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
				return f.Successf(map[string]interface{}{
					"from":   opts.Caller,
					"to":     opts.To,
					"amount": opts.Amount,
				}, "transferred %d tokens from %s to %s", opts.Amount, opts.Caller, opts.To)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Caller, "caller", "", "calling principal (required)")
	_ = cmd.MarkFlagRequired("caller")
	cmd.Flags().StringVar(&opts.To, "to", "", "recipient principal (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().Uint64Var(&opts.Amount, "amount", 0, "token amount (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
