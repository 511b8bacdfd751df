package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fitledger/fitledger/internal/engine"
)

// NewQueryCommand creates the query command group. All queries run
// against a read-only snapshot of the ledger.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Inspect ledger state",
	}

	cmd.AddCommand(newQueryProfileCommand(rootOpts))
	cmd.AddCommand(newQueryBalanceCommand(rootOpts))
	cmd.AddCommand(newQuerySupplyCommand(rootOpts))
	cmd.AddCommand(newQueryWorkoutCommand(rootOpts))
	cmd.AddCommand(newQueryChallengeCommand(rootOpts))
	cmd.AddCommand(newQueryHeightCommand(rootOpts))
	cmd.AddCommand(newQueryMilestonesCommand(rootOpts))
	cmd.AddCommand(newQueryInvariantsCommand(rootOpts))

	return cmd
}

func newQueryProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "profile <user>",
		Short:         "Show a user's account profile",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				ctx := context.Background()
				acct, found, err := e.GetUserProfile(ctx, args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "profile query failed", err)
				}
				if !found {
					return NewExitError(ExitFailure, fmt.Sprintf("no such user: %s", args[0]))
				}
				balance, err := e.GetTokenBalance(ctx, args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "balance query failed", err)
				}

				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				if f.Format == "json" {
					return f.Success(map[string]interface{}{
						"principal":           acct.Principal,
						"total_workouts":      acct.TotalWorkouts,
						"current_streak":      acct.CurrentStreak,
						"longest_streak":      acct.LongestStreak,
						"last_workout_time":   acct.LastWorkoutTime,
						"total_tokens_earned": acct.TotalTokensEarned,
						"total_duration":      acct.TotalDuration,
						"balance":             balance,
					})
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Profile: %s\n", acct.Principal)
				fmt.Fprintf(w, "  Workouts:       %d (%d minutes total)\n", acct.TotalWorkouts, acct.TotalDuration)
				fmt.Fprintf(w, "  Streak:         %d (longest %d)\n", acct.CurrentStreak, acct.LongestStreak)
				fmt.Fprintf(w, "  Last workout:   %s\n", formatLastWorkout(acct.LastWorkoutTime))
				fmt.Fprintf(w, "  Tokens earned:  %d\n", acct.TotalTokensEarned)
				fmt.Fprintf(w, "  Balance:        %d\n", balance)
				return nil
			})
		},
	}
	return cmd
}

func newQueryBalanceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "balance <principal>",
		Short:         "Show a principal's token balance",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				balance, err := e.GetTokenBalance(context.Background(), args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "balance query failed", err)
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				return f.Successf(map[string]interface{}{"principal": args[0], "balance": balance},
					"%d", balance)
			})
		},
	}
}

func newQuerySupplyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "supply",
		Short:         "Show the total token supply",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				supply, err := e.GetTokenSupply(context.Background())
				if err != nil {
					return WrapExitError(ExitCommandError, "supply query failed", err)
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				return f.Successf(map[string]interface{}{"supply": supply}, "%d", supply)
			})
		},
	}
}

func newQueryWorkoutCommand(rootOpts *RootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:           "workout <id>",
		Short:         "Show a recorded workout",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid workout id", err)
			}
			return withEngine(rootOpts, func(e *engine.Engine) error {
				w, found, err := e.GetWorkout(context.Background(), user, id)
				if err != nil {
					return WrapExitError(ExitCommandError, "workout query failed", err)
				}
				if !found {
					return NewExitError(ExitFailure, fmt.Sprintf("no workout %d for %s", id, user))
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				return f.Successf(map[string]interface{}{
					"principal":     w.Principal,
					"workout_id":    w.WorkoutID,
					"recorded_at":   w.RecordedAt,
					"duration":      w.Duration,
					"workout_type":  w.WorkoutType,
					"verified":      w.Verified,
					"tokens_earned": w.TokensEarned,
				}, "workout %d: %dmin %s at height %d, verified=%t, earned %d",
					w.WorkoutID, w.Duration, w.WorkoutType, w.RecordedAt, w.Verified, w.TokensEarned)
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "workout owner (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newQueryChallengeCommand(rootOpts *RootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:           "challenge <id>",
		Short:         "Show a challenge, optionally with one participation",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid challenge id", err)
			}
			return withEngine(rootOpts, func(e *engine.Engine) error {
				ctx := context.Background()
				c, found, err := e.GetChallenge(ctx, id)
				if err != nil {
					return WrapExitError(ExitCommandError, "challenge query failed", err)
				}
				if !found {
					return NewExitError(ExitFailure, fmt.Sprintf("no challenge %d", id))
				}

				data := map[string]interface{}{
					"challenge_id":      c.ChallengeID,
					"name":              c.Name,
					"description":       c.Description,
					"start_time":        c.StartTime,
					"end_time":          c.EndTime,
					"stake_amount":      c.StakeAmount,
					"reward_pool":       c.RewardPool,
					"participant_count": c.ParticipantCount,
					"is_active":         c.IsActive,
				}
				if user != "" {
					p, joined, err := e.GetChallengeParticipation(ctx, id, user)
					if err != nil {
						return WrapExitError(ExitCommandError, "participation query failed", err)
					}
					if joined {
						data["participation"] = map[string]interface{}{
							"principal":          p.Principal,
							"stake_amount":       p.StakeAmount,
							"workouts_completed": p.WorkoutsCompleted,
						}
					}
				}

				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				if f.Format == "json" {
					return f.Success(data)
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Challenge %d: %s\n", c.ChallengeID, c.Name)
				if c.Description != "" {
					fmt.Fprintf(w, "  %s\n", c.Description)
				}
				fmt.Fprintf(w, "  Window:       [%d, %d)\n", c.StartTime, c.EndTime)
				fmt.Fprintf(w, "  Stake:        %d\n", c.StakeAmount)
				fmt.Fprintf(w, "  Pool:         %d (%d participants)\n", c.RewardPool, c.ParticipantCount)
				fmt.Fprintf(w, "  Active:       %t\n", c.IsActive)
				if p, ok := data["participation"].(map[string]interface{}); ok {
					fmt.Fprintf(w, "  %s: %d workouts completed\n", p["principal"], p["workouts_completed"])
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "also show this user's participation")

	return cmd
}

func newQueryHeightCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "height",
		Short:         "Show the current logical clock height",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				height, err := e.CurrentHeight(context.Background())
				if err != nil {
					return WrapExitError(ExitCommandError, "height query failed", err)
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				return f.Successf(map[string]interface{}{"height": height}, "%d", height)
			})
		},
	}
}

func newQueryMilestonesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "milestones <user>",
		Short:         "Show a user's reached but unclaimed milestones",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				pending, err := e.UnclaimedMilestones(context.Background(), args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "milestone query failed", err)
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				if f.Format == "json" {
					return f.Success(map[string]interface{}{"user": args[0], "unclaimed": pending})
				}
				w := cmd.OutOrStdout()
				if len(pending) == 0 {
					fmt.Fprintf(w, "no unclaimed milestones for %s\n", args[0])
					return nil
				}
				for _, m := range pending {
					fmt.Fprintf(w, "  %d workouts -> %d tokens\n", m.Threshold, m.Reward)
				}
				return nil
			})
		},
	}
}

func newQueryInvariantsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "invariants",
		Short:         "Check that balances and pools sum to the supply",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(rootOpts, func(e *engine.Engine) error {
				if err := e.CheckInvariants(context.Background()); err != nil {
					return WrapExitError(ExitFailure, "invariant check failed", err)
				}
				f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
				return f.Successf(map[string]interface{}{"ok": true}, "ok")
			})
		},
	}
}

func formatLastWorkout(height int64) string {
	if height == 0 {
		return "never"
	}
	return fmt.Sprintf("height %d", height)
}
