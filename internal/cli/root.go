package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fitledger/fitledger/internal/audit"
	"github.com/fitledger/fitledger/internal/engine"
	"github.com/fitledger/fitledger/internal/ledger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the fitledger CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fitledger",
		Short: "fitledger - deterministic fitness activity ledger",
		Long:  "A verifier-gated fitness ledger: workouts, token rewards, streaks and staked challenges over a single SQLite file.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			setupLogging(opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "fitledger.db", "path to SQLite ledger file")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewAdvanceCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewTransferCommand(opts))
	cmd.AddCommand(NewWorkoutCommand(opts))
	cmd.AddCommand(NewVerifierCommand(opts))
	cmd.AddCommand(NewChallengeCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// withEngine opens the ledger file, runs fn against an engine bound to
// it, and closes the store afterwards.
func withEngine(opts *RootOptions, fn func(*engine.Engine) error) error {
	store, err := ledger.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer store.Close()

	return fn(engine.New(store, audit.UUIDv7Generator{}))
}

// rejectionError converts an engine rejection into an ExitError that
// carries the rejection code in its message. Errors without a code
// pass through as command errors.
func rejectionError(err error) error {
	// Error() already renders the code prefix.
	if engine.CodeOf(err) != "" {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	return WrapExitError(ExitCommandError, "ledger operation failed", err)
}
