package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrForbidden          = errors.New("operation not permitted")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrLocked             = errors.New("resource is locked")
	ErrRateLimited        = errors.New("too many requests")
)

// RedemptionErrorKind classifies redemption failures for the caller.
// Only two kinds ever surface: the code could not be resolved for the
// requesting supplier, or the attempt violated an offer/restriction rule.
type RedemptionErrorKind string

const (
	RedemptionNotFound RedemptionErrorKind = "not_found"
	RedemptionInvalid  RedemptionErrorKind = "invalid"
)

// RedemptionError carries a machine-readable kind plus a human-readable
// reason. A rejected attempt never has side effects, so the error is the
// whole story.
type RedemptionError struct {
	Kind   RedemptionErrorKind
	Reason string
}

func (e *RedemptionError) Error() string {
	return fmt.Sprintf("redemption %s: %s", e.Kind, e.Reason)
}

// Is maps redemption errors onto the common sentinels so callers can use
// errors.Is(err, domain.ErrNotFound) without knowing the concrete type.
func (e *RedemptionError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == RedemptionNotFound
	case ErrInvalidArgument:
		return e.Kind == RedemptionInvalid
	}
	return false
}

// CodeNotFound builds the NotFound variant.
func CodeNotFound(reason string) *RedemptionError {
	return &RedemptionError{Kind: RedemptionNotFound, Reason: reason}
}

// RedemptionInvalidf builds the Invalid variant with a formatted reason.
func RedemptionInvalidf(format string, args ...any) *RedemptionError {
	return &RedemptionError{Kind: RedemptionInvalid, Reason: fmt.Sprintf(format, args...)}
}
