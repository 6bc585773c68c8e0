// Package failure classifies workflow errors so controllers can decide how to
// report them. It is independent of the transport and presentation layers.
package failure

import (
	"errors"
	"fmt"
)

// Kind is a failure category
type Kind string

const (
	// KindValidation is missing local input, detected before any network call
	KindValidation Kind = "validation"
	// KindTransport is a network failure or a non-2xx response
	KindTransport Kind = "transport"
	// KindDecode is a malformed locally stored token
	KindDecode Kind = "decode"
	// KindBlocked is an action refused by a control-layer guard
	KindBlocked Kind = "blocked"
)

// Error is a classified failure
type Error struct {
	Kind          Kind
	Message       string
	Status        int    // HTTP status for transport failures, 0 when no response arrived
	ServerMessage string // human-readable error field from the response body, if any
	Err           error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches by kind so errors.Is(err, &Error{Kind: KindTransport}) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Validation creates a validation failure
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Blocked creates a guard refusal
func Blocked(msg string) error {
	return &Error{Kind: KindBlocked, Message: msg}
}

// Transport creates a transport failure. status is 0 when the request never
// produced a response.
func Transport(status int, serverMsg string, err error) error {
	msg := "request failed"
	if status != 0 {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	if serverMsg != "" {
		msg = fmt.Sprintf("%s: %s", msg, serverMsg)
	}
	return &Error{Kind: KindTransport, Message: msg, Status: status, ServerMessage: serverMsg, Err: err}
}

// Decode creates a token decode failure
func Decode(msg string, err error) error {
	return &Error{Kind: KindDecode, Message: msg, Err: err}
}

// KindOf returns the kind of a classified error, or "" for anything else
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HasKind checks if err is a classified failure of the given kind
func HasKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ServerMessage returns the server-provided error text carried by err, if any
func ServerMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.ServerMessage
	}
	return ""
}

// UserMessage picks the text to show a person for a failed operation.
// Validation failures show their own message, transport failures show the
// server's text when present, everything else falls back.
func UserMessage(err error, fallback string) string {
	var e *Error
	if !errors.As(err, &e) {
		return fallback
	}
	switch e.Kind {
	case KindValidation, KindBlocked:
		if e.Message != "" {
			return e.Message
		}
	case KindTransport:
		if e.ServerMessage != "" {
			return e.ServerMessage
		}
	}
	return fallback
}
