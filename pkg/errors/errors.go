// Package errors provides structured error handling for the stage framework.
//
// Misuse of the node tree, the bindable graph or the dependency store is
// surfaced synchronously as a *StageError. Each kind has a sentinel so callers
// can test with the standard library:
//
//	if errors.Is(err, stageerrors.ErrInvalidOperation) { ... }
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindNotFound indicates a dependency lookup miss.
	KindNotFound
	// KindInvalidOperation indicates a write the receiver does not permit,
	// such as setting a read-only bindable.
	KindInvalidOperation
	// KindConflict indicates an overwrite of a dependency another reader
	// has already observed.
	KindConflict
	// KindLifecycle indicates an illegal node state transition.
	KindLifecycle
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindInvalidOperation:
		return "invalid-operation"
	case KindConflict:
		return "conflict"
	case KindLifecycle:
		return "lifecycle"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

type sentinel string

func (s sentinel) Error() string { return string(s) }

// Sentinels matched by errors.Is against a *StageError of the same kind.
var (
	ErrNotFound         error = sentinel("not found")
	ErrInvalidOperation error = sentinel("invalid operation")
	ErrConflict         error = sentinel("conflict")
	ErrLifecycle        error = sentinel("illegal lifecycle transition")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindInvalidOperation:
		return ErrInvalidOperation
	case KindConflict:
		return ErrConflict
	case KindLifecycle:
		return ErrLifecycle
	default:
		return nil
	}
}

// StageError represents a structured error in the stage framework.
type StageError struct {
	// Op is the operation that failed (e.g., "bindable.Set").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Key names the dependency key or node involved, if any.
	Key string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *StageError) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Key != "" {
		return fmt.Sprintf("%s [%s] key=%s: %s", e.Op, e.Kind, e.Key, msg)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Op, e.Kind, msg)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *StageError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NotFound returns a KindNotFound error for key.
func NotFound(op, key string) *StageError {
	return &StageError{
		Op:        op,
		Kind:      KindNotFound,
		Key:       key,
		Err:       fmt.Errorf("no dependency registered for %s", key),
		Timestamp: time.Now(),
	}
}

// InvalidOperation returns a KindInvalidOperation error with a formatted reason.
func InvalidOperation(op, format string, args ...any) *StageError {
	return &StageError{
		Op:        op,
		Kind:      KindInvalidOperation,
		Err:       fmt.Errorf(format, args...),
		Timestamp: time.Now(),
	}
}

// Conflict returns a KindConflict error for key.
func Conflict(op, key string) *StageError {
	return &StageError{
		Op:        op,
		Kind:      KindConflict,
		Key:       key,
		Err:       fmt.Errorf("%s was already observed and cannot be replaced", key),
		Timestamp: time.Now(),
	}
}

// Lifecycle returns a KindLifecycle error for the node named key.
func Lifecycle(op, key, from, to string) *StageError {
	return &StageError{
		Op:        op,
		Kind:      KindLifecycle,
		Key:       key,
		Err:       fmt.Errorf("cannot move from %s to %s", from, to),
		Timestamp: time.Now(),
	}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "engine.Frame").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ErrorHandler receives errors reported by the stage framework.
type ErrorHandler interface {
	// HandleError is called when an error is reported rather than returned.
	HandleError(err *StageError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
