package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fitledger/fitledger/internal/engine"
)

// NewWorkoutCommand creates the workout command group.
func NewWorkoutCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workout",
		Short: "Record and verify workouts",
	}

	cmd.AddCommand(newWorkoutRecordCommand(rootOpts))
	cmd.AddCommand(newWorkoutVerifyCommand(rootOpts))

	return cmd
}

func newWorkoutRecordCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		caller      string
		duration    uint64
		workoutType string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record an unverified workout",
		Long: `Record a workout for the calling principal.

The workout starts unverified and earns nothing until an authorized
verifier confirms it. Duration is in minutes; anything under 15
minutes is rejected. Recording registers the caller if needed.

Example:
  fitledger workout record --caller alice --duration 45 --type running`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				id, err := e.RecordWorkout(context.Background(), caller, duration, workoutType)
				if err != nil {
					return rejectionError(err)
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				return f.Successf(map[string]interface{}{"workout_id": id},
					"recorded workout %d for %s (awaiting verification)", id, caller)
			})
		},
	}

	cmd.Flags().StringVar(&caller, "caller", "", "calling principal (required)")
	_ = cmd.MarkFlagRequired("caller")
	cmd.Flags().Uint64Var(&duration, "duration", 0, "workout duration in minutes (required)")
	_ = cmd.MarkFlagRequired("duration")
	cmd.Flags().StringVar(&workoutType, "type", "", "workout type, e.g. running")

	return cmd
}

func newWorkoutVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		caller    string
		user      string
		workoutID uint64
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a recorded workout",
		Long: `Verify a user's recorded workout.

Only authorized verifiers may verify. Verification updates the user's
streak and mints the token reward in the same step. A workout can be
verified once.

Example:
  fitledger workout verify --caller coach-a --user alice --id 1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				tokens, err := e.VerifyWorkout(context.Background(), caller, user, workoutID)
				if err != nil {
					return rejectionError(err)
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				return f.Successf(map[string]interface{}{
					"user":       user,
					"workout_id": workoutID,
					"tokens":     tokens,
				}, "verified workout %d for %s, minted %d tokens", workoutID, user, tokens)
			})
		},
	}

	cmd.Flags().StringVar(&caller, "caller", "", "calling principal (required)")
	_ = cmd.MarkFlagRequired("caller")
	cmd.Flags().StringVar(&user, "user", "", "workout owner (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().Uint64Var(&workoutID, "id", 0, "workout id (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
