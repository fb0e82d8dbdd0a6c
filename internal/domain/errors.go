package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidInput
	KindUnauthenticated
	KindRejected
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindRejected:
		return "rejected"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// LedgerError tags a failure with the kind of problem that caused it.
// Error() returns the cause's text unchanged so clients keep seeing the
// message the ledger produced.
type LedgerError struct {
	Kind        ErrorKind
	Transaction string
	Err         error
}

func (e *LedgerError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

func NewLedgerError(kind ErrorKind, transaction string, err error) *LedgerError {
	return &LedgerError{Kind: kind, Transaction: transaction, Err: err}
}

// InvalidInput builds an input error with a fixed message.
func InvalidInput(msg string) *LedgerError {
	return &LedgerError{Kind: KindInvalidInput, Err: errors.New(msg)}
}

// KindOf reports the kind of err. Untagged errors are internal.
func KindOf(err error) ErrorKind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindInternal
}

var (
	ErrLoginFailed = &LedgerError{Kind: KindRejected, Transaction: TxLoginUser, Err: errors.New("Email or Password incorrect")}
	ErrNotLoggedIn = &LedgerError{Kind: KindUnauthenticated, Err: errors.New("not logged in")}
)
