package transfer

import (
	"errors"
	"fmt"
)

// Kind classifies why a transfer was refused.
type Kind string

const (
	KindInvalidIdentifier  Kind = "invalid_identifier"
	KindDuplicateRecipient Kind = "duplicate_recipient"
	KindUnknownRecipient   Kind = "unknown_recipient"
	KindInsufficientFunds  Kind = "insufficient_funds"
	KindSplitTooSmall      Kind = "split_too_small"
	KindInvalidAmount      Kind = "invalid_amount"
	KindEmptyRecipients    Kind = "empty_recipients"
	KindStorageFailure     Kind = "storage_failure"
)

// Error is a refused or failed transfer. Field names the request field at
// fault, when there is one.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of message or field.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidIdentifier  = &Error{Kind: KindInvalidIdentifier, Message: "invalid recipient identifier"}
	ErrDuplicateRecipient = &Error{Kind: KindDuplicateRecipient, Message: "recipients must be unique"}
	ErrUnknownRecipient   = &Error{Kind: KindUnknownRecipient, Message: "one or more recipients do not exist"}
	ErrInsufficientFunds  = &Error{Kind: KindInsufficientFunds, Message: "insufficient funds"}
	ErrSplitTooSmall      = &Error{Kind: KindSplitTooSmall, Message: "amount per recipient is less than 0.01"}
	ErrInvalidAmount      = &Error{Kind: KindInvalidAmount, Message: "invalid amount"}
	ErrEmptyRecipients    = &Error{Kind: KindEmptyRecipients, Message: "at least one recipient is required"}
	ErrStorageFailure     = &Error{Kind: KindStorageFailure, Message: "storage failure"}
)

// NewError builds a transfer error of the given kind.
func NewError(kind Kind, field, msg string, err error) *Error {
	return &Error{Kind: kind, Field: field, Message: msg, Err: err}
}

// StorageFailure wraps an infrastructure error.
func StorageFailure(err error) *Error {
	return NewError(KindStorageFailure, "", "storage failure", err)
}

// KindOf returns the kind of err, or "" when err is not a transfer error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
