package measure

import (
	"errors"
	"fmt"
)

// Kind classifies why a measurement failed.
type Kind string

const (
	HostNotSet         Kind = "HostNotSet"
	HostUnknown        Kind = "HostUnknown"
	Timeout            Kind = "Timeout"
	UnknownError       Kind = "UnknownError"
	CounterUnavailable Kind = "CounterUnavailable"
)

var kindMessages = map[Kind]string{
	HostNotSet:         "host not set",
	HostUnknown:        "unknown host",
	Timeout:            "ping timed out",
	UnknownError:       "unknown error",
	CounterUnavailable: "traffic counters unavailable",
}

// Code is the stable identifier handed to clients.
func (k Kind) Code() string {
	return string(k)
}

func (k Kind) Message() string {
	if m, ok := kindMessages[k]; ok {
		return m
	}
	return kindMessages[UnknownError]
}

// Error carries a Kind and the cause that produced it, if any.
type Error struct {
	Kind Kind
	Err  error
}

var (
	ErrHostNotSet         = &Error{Kind: HostNotSet}
	ErrHostUnknown        = &Error{Kind: HostUnknown}
	ErrTimeout            = &Error{Kind: Timeout}
	ErrUnknown            = &Error{Kind: UnknownError}
	ErrCounterUnavailable = &Error{Kind: CounterUnavailable}
)

func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind.Message(), e.Err)
	}
	return e.Kind.Message()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrTimeout)
// holds regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind carried by err. Errors produced outside this
// taxonomy are reported as UnknownError.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UnknownError
}
