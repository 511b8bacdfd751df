package ledger

import (
	"fmt"
)

// Event is one audit-trail row: a committed mutating call with its
// canonical-JSON arguments and result. Seq is assigned by the store and
// is strictly increasing in commit order.
type Event struct {
	Seq       int64
	ID        string
	CallToken string
	Height    int64
	Caller    string
	Op        string
	Args      string // canonical JSON
	Result    string // canonical JSON
}

// AppendEvent inserts an audit event. Duplicate event IDs are silently
// ignored so a replayed call cannot double-log.
func (st *State) AppendEvent(ev Event) error {
	_, err := st.tx.ExecContext(st.ctx, `
		INSERT INTO events (id, call_token, height, caller, op, args, result)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, ev.ID, ev.CallToken, ev.Height, ev.Caller, ev.Op, ev.Args, ev.Result)
	if err != nil {
		return fmt.Errorf("append event %q: %w", ev.ID, err)
	}
	return nil
}

// ReadEvents returns audit events in commit order. caller narrows the
// trace to one principal when non-empty; limit of 0 means no limit.
func (st *State) ReadEvents(caller string, limit int) ([]Event, error) {
	query := `
		SELECT seq, id, call_token, height, caller, op, args, result
		FROM events
	`
	var args []any
	if caller != "" {
		query += ` WHERE caller = ?`
		args = append(args, caller)
	}
	query += ` ORDER BY seq ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := st.tx.QueryContext(st.ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.Seq, &ev.ID, &ev.CallToken, &ev.Height,
			&ev.Caller, &ev.Op, &ev.Args, &ev.Result); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}
