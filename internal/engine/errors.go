package engine

import (
	"errors"
	"fmt"
)

// Error represents a rejected state transition.
//
// Every public entry point returns either a committed result or an
// *Error; when an *Error is returned the call's transaction has been
// rolled back and no state changed. Infrastructure failures (I/O,
// corrupt rows) surface as plain wrapped errors instead.
type Error struct {
	// Code identifies the rejection category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Op names the entry point that rejected the call.
	Op string

	// Principal identifies the caller, when relevant.
	Principal string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes rejected transitions.
type ErrorCode string

const (
	// ErrCodeNotAuthorized: caller is neither the owner nor holds the
	// role the operation demands.
	ErrCodeNotAuthorized ErrorCode = "NOT_AUTHORIZED"

	// ErrCodeUserNotFound: the referenced account does not exist.
	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"

	// ErrCodeUnauthorizedVerifier: caller is not an authorized verifier.
	ErrCodeUnauthorizedVerifier ErrorCode = "UNAUTHORIZED_VERIFIER"

	// ErrCodeInvalidDuration: workout shorter than the minimum.
	ErrCodeInvalidDuration ErrorCode = "INVALID_DURATION"

	// ErrCodeAlreadyVerified: the workout was verified before.
	ErrCodeAlreadyVerified ErrorCode = "ALREADY_VERIFIED"

	// ErrCodeWorkoutNotFound: no such (user, workout id) record.
	ErrCodeWorkoutNotFound ErrorCode = "WORKOUT_NOT_FOUND"

	// ErrCodeWorkoutNotVerified: challenge progress requires a verified
	// workout.
	ErrCodeWorkoutNotVerified ErrorCode = "WORKOUT_NOT_VERIFIED"

	// ErrCodeChallengeNotFound: no such challenge id.
	ErrCodeChallengeNotFound ErrorCode = "CHALLENGE_NOT_FOUND"

	// ErrCodeChallengeNotActive: challenge closed or not yet started.
	ErrCodeChallengeNotActive ErrorCode = "CHALLENGE_NOT_ACTIVE"

	// ErrCodeChallengeExpired: challenge end time has passed.
	ErrCodeChallengeExpired ErrorCode = "CHALLENGE_EXPIRED"

	// ErrCodeInsufficientTokens: balance cannot cover the debit.
	ErrCodeInsufficientTokens ErrorCode = "INSUFFICIENT_TOKENS"

	// ErrCodeAlreadyJoined: caller already participates in the challenge.
	ErrCodeAlreadyJoined ErrorCode = "ALREADY_JOINED"

	// ErrCodeParticipationNotFound: caller never joined the challenge.
	ErrCodeParticipationNotFound ErrorCode = "PARTICIPATION_NOT_FOUND"

	// ErrCodeMilestoneAlreadyClaimed is declared for taxonomy
	// completeness: no entry point sets or pays milestones today, so no
	// path emits it.
	ErrCodeMilestoneAlreadyClaimed ErrorCode = "MILESTONE_ALREADY_CLAIMED"

	// ErrCodeAmountOverflow: a token or counter addition would exceed
	// the storable range. The call aborts rather than saturating.
	ErrCodeAmountOverflow ErrorCode = "AMOUNT_OVERFLOW"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" && e.Principal != "" {
		return fmt.Sprintf("%s: %s (op=%s, principal=%s)", e.Code, e.Message, e.Op, e.Principal)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Returns "" when err is not a transition rejection.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err is a transition rejection with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func reject(code ErrorCode, op, principal, message string) *Error {
	return &Error{Code: code, Message: message, Op: op, Principal: principal}
}
