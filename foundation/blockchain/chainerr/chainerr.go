// Package chainerr provides the flat error-kind taxonomy shared by the
// codec, database, block, mempool and chain packages. Every validation and
// consensus function in this module returns an error classified with one
// of these kinds instead of an ad hoc message, so callers can pattern match
// on the real failure instead of a generic "error" atom.
package chainerr

import (
	"errors"
	"fmt"
)

// Kind tags the category of an Error. The set is intentionally flat: no
// kind wraps or implies another.
type Kind string

// The full set of error kinds this module produces.
const (
	DecodeError           Kind = "decode_error"
	InvalidAmount         Kind = "invalid_amount"
	InsufficientFunds     Kind = "insufficient_funds"
	InvalidNonce          Kind = "invalid_nonce"
	InvalidSig            Kind = "invalid_signature"
	InvalidMinerSig       Kind = "invalid_miner_signature"
	InvalidPow            Kind = "invalid_pow"
	TooManyTransactions   Kind = "too_many_transactions"
	InvalidPrevBlock      Kind = "invalid_prev_block"
	InvalidDifficulty     Kind = "invalid_difficulty"
	CorruptedGenesisBlock Kind = "corrupted_genesis_block"
	UnknownGenesisBlock   Kind = "unknown_genesis_block"
	CorruptedChain        Kind = "corrupted_chain"
)

// Error pairs a Kind with a human-readable message. Two Errors with the
// same Kind but different messages are still "the same kind of failure" as
// far as Is is concerned.
type Error struct {
	Kind Kind
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New constructs an Error of the given kind.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a chainerr.Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// As extracts the *Error from err, if any.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
