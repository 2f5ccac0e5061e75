package apperror

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks. Every typed error below unwraps to one of these.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDependencyWrite   = errors.New("dependent write failed")
	ErrUnexpectedStore   = errors.New("unexpected store error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)

type ValidationError struct {
	Field   string
	Message string
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError covers both "absent" and "owned by someone else".
type NotFoundError struct {
	Entity string
}

func NewNotFound(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

type InvalidTransitionError struct {
	From string
	To   string
}

func NewInvalidTransition(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change subscription status from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// DependencyWriteError is returned by multi-step writes after compensation ran.
type DependencyWriteError struct {
	Step string
	Err  error
}

func NewDependencyWrite(step string, err error) *DependencyWriteError {
	return &DependencyWriteError{Step: step, Err: err}
}

func (e *DependencyWriteError) Error() string {
	return fmt.Sprintf("failed to create %s: %v", e.Step, e.Err)
}

func (e *DependencyWriteError) Unwrap() []error { return []error{ErrDependencyWrite, e.Err} }

type UnexpectedStoreError struct {
	Op  string
	Err error
}

// Store wraps a raw repository error. A nil err yields nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var already *UnexpectedStoreError
	if errors.As(err, &already) {
		return err
	}
	return &UnexpectedStoreError{Op: op, Err: err}
}

func (e *UnexpectedStoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UnexpectedStoreError) Unwrap() []error { return []error{ErrUnexpectedStore, e.Err} }

type AuthError struct {
	Forbidden bool
	Message   string
}

func NewUnauthorized(message string) *AuthError {
	return &AuthError{Message: message}
}

func NewForbidden(message string) *AuthError {
	return &AuthError{Forbidden: true, Message: message}
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error {
	if e.Forbidden {
		return ErrForbidden
	}
	return ErrUnauthorized
}
