package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies a domain failure. The HTTP layer maps kinds to status codes.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindValidation       ErrorKind = "validation_failed"
	KindIncorrectPeriod  ErrorKind = "incorrect_period"
	KindEmptyResult      ErrorKind = "empty_result"
	KindTransactionEmpty ErrorKind = "transaction_empty"
	KindNotCreated       ErrorKind = "not_created"
	KindNotUpdated       ErrorKind = "not_updated"
	KindNotDeleted       ErrorKind = "not_deleted"
)

var (
	ErrSellerNotFound      = errors.New("seller not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNoTransactions      = errors.New("seller has no transactions")
)

type Error struct {
	Kind      ErrorKind
	Message   string
	Timestamp time.Time
	Err       error
}

func NewError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
		Err:       err,
	}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsMissing reports whether the failure was caused by a row that does not exist.
func (e *Error) IsMissing() bool {
	return errors.Is(e.Err, ErrSellerNotFound) || errors.Is(e.Err, ErrTransactionNotFound)
}

// KindOf returns the kind of a domain error, or "" for any other error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
