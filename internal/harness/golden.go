package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/fitledger/fitledger/internal/audit"
)

// RunWithGolden executes a scenario and compares its audit trail
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// The snapshot excludes content-addressed event IDs: they hash the call
// token, op, args and height, all of which the snapshot already pins.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot, err := traceSnapshot(scenario.Name, result)
	if err != nil {
		return nil, err
	}
	traceJSON, err := audit.MarshalCanonical(snapshot)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return result, nil
}

// traceSnapshot converts a result's audit trail into a canonical-JSON
// friendly map.
func traceSnapshot(name string, result *Result) (map[string]interface{}, error) {
	trace := make([]interface{}, len(result.Trace))
	for i, ev := range result.Trace {
		args, err := decodeCanonical(ev.Args)
		if err != nil {
			return nil, fmt.Errorf("event %d args: %w", ev.Seq, err)
		}
		res, err := decodeCanonical(ev.Result)
		if err != nil {
			return nil, fmt.Errorf("event %d result: %w", ev.Seq, err)
		}
		trace[i] = map[string]interface{}{
			"seq":        ev.Seq,
			"call_token": ev.CallToken,
			"caller":     ev.Caller,
			"op":         ev.Op,
			"height":     ev.Height,
			"args":       args,
			"result":     res,
		}
	}
	return map[string]interface{}{
		"scenario_name": name,
		"trace":         trace,
	}, nil
}

// decodeCanonical parses stored canonical JSON back into the value
// types audit.MarshalCanonical accepts. Numbers decode as int64, never
// float64.
func decodeCanonical(raw string) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalizeNumbers(v)
}

func normalizeNumbers(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer number %q", val)
		}
		return n, nil
	case []interface{}:
		for i, elem := range val {
			norm, err := normalizeNumbers(elem)
			if err != nil {
				return nil, err
			}
			val[i] = norm
		}
		return val, nil
	case map[string]interface{}:
		for k, elem := range val {
			norm, err := normalizeNumbers(elem)
			if err != nil {
				return nil, err
			}
			val[k] = norm
		}
		return val, nil
	default:
		return v, nil
	}
}
