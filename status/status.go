// Package status defines the closed set of result codes every fallible
// operation in pds returns, in place of ad-hoc wrapped errors.
package status

import (
	"errors"
	"fmt"
)

// Code is a closed enumeration of outcomes. The zero value is OK.
type Code int

const (
	OK Code = iota
	CantRead
	CantWrite
	Corrupted
	Invalid
	InvalidParam
	NotFound
	NotInitialized
	AlreadyInitialized
	UndefinedError
)

var names = map[Code]string{
	OK:                 "ok",
	CantRead:           "cant_read",
	CantWrite:          "cant_write",
	Corrupted:          "corrupted",
	Invalid:            "invalid",
	InvalidParam:       "invalid_param",
	NotFound:           "not_found",
	NotInitialized:     "not_initialized",
	AlreadyInitialized: "already_initialized",
	UndefinedError:     "undefined_error",
}

func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return "undefined_error"
}

// Status wraps a Code with an optional descriptive message, satisfying the
// error interface so it composes with standard error handling while still
// carrying the closed code for callers that want to switch on it.
type Status struct {
	Code Code
	Msg  string
}

func (s *Status) Error() string {
	if s.Msg == "" {
		return s.Code.String()
	}
	return fmt.Sprintf("%s: %s", s.Code.String(), s.Msg)
}

// New creates a Status for the given code with a formatted message.
func New(code Code, format string, args ...any) *Status {
	return &Status{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err (or anything it wraps via errors.As) carries code.
func Is(err error, code Code) bool {
	var s *Status
	if err == nil {
		return code == OK
	}
	if !errors.As(err, &s) {
		return false
	}
	return s.Code == code
}

// Ok reports whether err represents a successful, non-error outcome.
func Ok(err error) bool { return err == nil }
