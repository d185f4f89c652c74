// Package bridgeerr defines the error kinds that cross component
// boundaries in the bridge core (store, queue, ops, claim).
package bridgeerr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	InvalidSignature        Kind = "InvalidSignature"
	InvalidOwner            Kind = "InvalidOwner"
	NotClaimed              Kind = "NotClaimed"
	Blacklisted             Kind = "Blacklisted"
	InsufficientBalance     Kind = "InsufficientBalance"
	InsufficientHotWallet   Kind = "InsufficientHotWallet"
	DuplicateRequest        Kind = "DuplicateRequest"
	LockTimeout             Kind = "LockTimeout"
	StoreTransactionFailure Kind = "StoreTransactionFailure"
	UpstreamChainFailure    Kind = "UpstreamChainFailure"
	InvalidAmount           Kind = "InvalidAmount"
	AlreadyDone             Kind = "AlreadyDone"
)

// Error wraps a Kind with the underlying cause so that callers can both
// errors.Is against a Kind and unwrap to the original error for logging.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Msg, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is(err, bridgeerr.New(Kind, "")) to match purely by Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the Kind from err, if it (or something it wraps) is a
// *Error. Returns "" when no Kind is present.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// Retryable reports whether Q should re-enqueue the job that returned err,
// rather than dropping it as permanently failed. InsufficientHotWallet is
// retryable because it describes a transient state of the world (the
// custodial hot wallet catching up on a refill); InsufficientBalance is a
// user validation error on the user's own ledger balance and surfaces
// synchronously instead (spec.md §7, §8 property 6).
func Retryable(err error) bool {
	switch KindOf(err) {
	case LockTimeout, UpstreamChainFailure, InsufficientHotWallet:
		return true
	default:
		return false
	}
}
