package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitledger/fitledger/internal/engine"
	"github.com/fitledger/fitledger/internal/ledger"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Caller string
	Limit  int
}

// TraceEvent is one entry in the audit timeline.
type TraceEvent struct {
	Seq    int64                  `json:"seq"`
	ID     string                 `json:"id"`
	Height int64                  `json:"height"`
	Caller string                 `json:"caller"`
	Op     string                 `json:"op"`
	Args   map[string]interface{} `json:"args,omitempty"`
	Result map[string]interface{} `json:"result,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Dump the audit trail",
		Long: `Dump the ledger's audit trail in commit order.

Every committed state transition appends one event with the caller,
operation, canonical arguments and result. Rejected calls leave no
trace.

Examples:
  fitledger trace --db ./fitledger.db
  fitledger trace --caller alice --limit 20
  fitledger trace --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Caller, "caller", "", "filter to one calling principal")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum events to show (0 = all)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	return withEngine(opts.RootOptions, func(e *engine.Engine) error {
		events, err := e.ReadTrace(context.Background(), opts.Caller, opts.Limit)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read audit trail", err)
		}

		timeline := make([]TraceEvent, 0, len(events))
		for _, ev := range events {
			te, err := toTraceEvent(ev)
			if err != nil {
				return WrapExitError(ExitCommandError, "corrupt audit event", err)
			}
			timeline = append(timeline, te)
		}

		if opts.Format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(CLIResponse{Status: "ok", Data: timeline})
		}

		w := cmd.OutOrStdout()
		if len(timeline) == 0 {
			fmt.Fprintln(w, "(no events)")
			return nil
		}
		for _, te := range timeline {
			fmt.Fprintf(w, "[%d] h=%d %s %s\n", te.Seq, te.Height, te.Caller, te.Op)
			if opts.Verbose {
				fmt.Fprintf(w, "     id: %s\n", truncateID(te.ID))
				if len(te.Args) > 0 {
					fmt.Fprintf(w, "     args: %s\n", compactJSON(te.Args))
				}
				if len(te.Result) > 0 {
					fmt.Fprintf(w, "     result: %s\n", compactJSON(te.Result))
				}
			}
		}
		return nil
	})
}

func toTraceEvent(ev ledger.Event) (TraceEvent, error) {
	te := TraceEvent{
		Seq:    ev.Seq,
		ID:     ev.ID,
		Height: ev.Height,
		Caller: ev.Caller,
		Op:     ev.Op,
	}
	if ev.Args != "" {
		if err := json.Unmarshal([]byte(ev.Args), &te.Args); err != nil {
			return TraceEvent{}, fmt.Errorf("event %d args: %w", ev.Seq, err)
		}
	}
	if ev.Result != "" {
		if err := json.Unmarshal([]byte(ev.Result), &te.Result); err != nil {
			return TraceEvent{}, fmt.Errorf("event %d result: %w", ev.Seq, err)
		}
	}
	return te, nil
}

func compactJSON(m map[string]interface{}) string {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Sprintf("%v", m)
	}
	return string(b)
}

// truncateID truncates a long event ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
