package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainEvent is the domain prefix for content-addressed event identity.
// Version suffix enables future algorithm migration.
const DomainEvent = "fitledger/event/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EventID computes the content-addressed ID for an audit event.
// The ID is stable given the same call token, operation, caller, args,
// and height, which makes a replayed append a detectable no-op.
func EventID(callToken, op, caller string, args map[string]any, height int64) (string, error) {
	obj := map[string]any{
		"call_token": callToken,
		"op":         op,
		"caller":     caller,
		"args":       anyMap(args),
		"height":     height,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("EventID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainEvent, canonical), nil
}

// anyMap normalizes a nil args map to an empty object so that
// "no arguments" always serializes as {}.
func anyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
