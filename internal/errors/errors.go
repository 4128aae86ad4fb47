package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeStoreFailure ErrorType = "STORE_FAILURE"
	ErrTypeUnexpected   ErrorType = "UNEXPECTED"
)

// DomainError is the only error shape the coordinator surfaces to its
// callers. Validation errors additionally carry the offending fields so
// the host can highlight them.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
	Fields  map[string]string
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func NotFound(message string, err error) *DomainError {
	return New(ErrTypeNotFound, message, err)
}

// Validation builds a user-fixable error carrying one message per
// offending field.
func Validation(message string, fields map[string]string) *DomainError {
	e := New(ErrTypeValidation, message, nil)
	e.Fields = fields
	return e
}

func StoreFailure(message string, err error) *DomainError {
	return New(ErrTypeStoreFailure, message, err)
}

func Unexpected(message string, err error) *DomainError {
	return New(ErrTypeUnexpected, message, err)
}

// IsType reports whether err is a DomainError of the given type.
func IsType(err error, errType ErrorType) bool {
	var de *DomainError
	if !stderrors.As(err, &de) {
		return false
	}
	return de.Type == errType
}

func IsNotFound(err error) bool   { return IsType(err, ErrTypeNotFound) }
func IsValidation(err error) bool { return IsType(err, ErrTypeValidation) }
