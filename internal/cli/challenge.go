package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fitledger/fitledger/internal/engine"
)

// NewChallengeCommand creates the challenge command group.
func NewChallengeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Create, join and close staked challenges",
	}

	cmd.AddCommand(newChallengeCreateCommand(rootOpts))
	cmd.AddCommand(newChallengeJoinCommand(rootOpts))
	cmd.AddCommand(newChallengeRecordCommand(rootOpts))
	cmd.AddCommand(newChallengeEndCommand(rootOpts))

	return cmd
}

// ChallengeCreateOptions holds flags for challenge create.
type ChallengeCreateOptions struct {
	*RootOptions
	Caller      string
	Name        string
	Description string
	Start       int64
	End         int64
	Stake       uint64
}

func newChallengeCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChallengeCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new challenge",
		Long: `Create a staked challenge open between two clock heights.

Only authorized verifiers may create challenges. Joining escrows the
stake amount into the challenge pool.

Example:
  fitledger challenge create --caller coach-a --name "spring sprint" \
    --start 1000 --end 5320 --stake 25`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(opts.RootOptions, func(e *engine.Engine) error {
				id, err := e.CreateChallenge(context.Background(), opts.Caller,
					opts.Name, opts.Description, opts.Start, opts.End, opts.Stake)
				if err != nil {
					return rejectionError(err)
				}
				f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
				return f.Successf(map[string]interface{}{"challenge_id": id},
					"created challenge %d (%s)", id, opts.Name)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Caller, "caller", "", "calling principal, must be a verifier (required)")
	_ = cmd.MarkFlagRequired("caller")
	cmd.Flags().StringVar(&opts.Name, "name", "", "challenge name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opts.Description, "description", "", "challenge description")
	cmd.Flags().Int64Var(&opts.Start, "start", 0, "opening height (required)")
	_ = cmd.MarkFlagRequired("start")
	cmd.Flags().Int64Var(&opts.End, "end", 0, "closing height, exclusive (required)")
	_ = cmd.MarkFlagRequired("end")
	cmd.Flags().Uint64Var(&opts.Stake, "stake", 0, "stake per participant")

	return cmd
}

func newChallengeJoinCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		caller      string
		challengeID uint64
	)

	cmd := &cobra.Command{
		Use:           "join",
		Short:         "Join a challenge, escrowing the stake",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				if err := e.JoinChallenge(context.Background(), caller, challengeID); err != nil {
					return rejectionError(err)
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				return f.Successf(map[string]interface{}{"challenge_id": challengeID},
					"%s joined challenge %d", caller, challengeID)
			})
		},
	}

	cmd.Flags().StringVar(&caller, "caller", "", "calling principal (required)")
	_ = cmd.MarkFlagRequired("caller")
	cmd.Flags().Uint64Var(&challengeID, "id", 0, "challenge id (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newChallengeRecordCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		caller      string
		challengeID uint64
		workoutID   uint64
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Count a verified workout toward a challenge",
		Long: `Count one of the caller's verified workouts toward a joined
challenge. The workout must already be verified and the challenge
still open.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				if err := e.RecordChallengeWorkout(context.Background(), caller, challengeID, workoutID); err != nil {
					return rejectionError(err)
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				return f.Successf(map[string]interface{}{
					"challenge_id": challengeID,
					"workout_id":   workoutID,
				}, "counted workout %d toward challenge %d", workoutID, challengeID)
			})
		},
	}

	cmd.Flags().StringVar(&caller, "caller", "", "calling principal (required)")
	_ = cmd.MarkFlagRequired("caller")
	cmd.Flags().Uint64Var(&challengeID, "id", 0, "challenge id (required)")
	_ = cmd.MarkFlagRequired("id")
	cmd.Flags().Uint64Var(&workoutID, "workout", 0, "verified workout id (required)")
	_ = cmd.MarkFlagRequired("workout")

	return cmd
}

func newChallengeEndCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		caller      string
		challengeID uint64
	)

	cmd := &cobra.Command{
		Use:           "end",
		Short:         "Close a challenge",
		Long:          "Close a challenge. Only the owner or a verifier may close one.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				if err := e.EndChallenge(context.Background(), caller, challengeID); err != nil {
					return rejectionError(err)
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				return f.Successf(map[string]interface{}{"challenge_id": challengeID},
					"closed challenge %d", challengeID)
			})
		},
	}

	cmd.Flags().StringVar(&caller, "caller", "", "calling principal (required)")
	_ = cmd.MarkFlagRequired("caller")
	cmd.Flags().Uint64Var(&challengeID, "id", 0, "challenge id (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
