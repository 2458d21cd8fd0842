package hive

import (
	"errors"
	"fmt"
)

// ErrorCode classifies the outcome of a failed or refused hive operation.
type ErrorCode int

const (
	Unknown ErrorCode = iota
	// Rejected means the client refused the operation before any network
	// activity took place, e.g. an oversized payload.
	Rejected
	// Terminal means the service answered with a definitive business outcome
	// that retrying cannot change: a missing state key, a consumed transfer.
	Terminal
	// Transient means the exchange failed in a way expected to heal on its
	// own (timeout, connection refused, 5xx) and is subject to retry.
	Transient
)

// Hive custom error.
type Error struct {
	Code     ErrorCode
	Err      error
	UserData any
}

func (e Error) Error() string {
	return fmt.Sprintf("error code: %d, user data: %v, details: %v", e.Code, e.UserData, e.Err)
}

func (e Error) Unwrap() error {
	return e.Err
}

var (
	// ErrPayloadTooLarge is returned when a value or transfer payload exceeds
	// the configured body limit.
	ErrPayloadTooLarge = errors.New("payload size exceeds limit")
	// ErrNotFound is the definitive miss for a state key (HTTP 404).
	ErrNotFound = errors.New("state key not found")
	// ErrGone marks a transfer that was already claimed or has expired
	// (HTTP 410).
	ErrGone = errors.New("transfer gone")
)
