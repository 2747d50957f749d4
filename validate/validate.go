// Package validate implements the structural-invariant error accumulator
// used by every composite container's Validate operation (spec §4.6).
// Validation never throws or aborts early; it always runs to completion,
// recording every violation it finds.
package validate

import (
	"fmt"

	"go.uber.org/multierr"
)

// Flag is a bitwise-composable error kind. Multiple flags may be set on a
// single Validator if more than one kind of violation was observed.
type Flag uint32

const (
	InvalidCount  Flag = 1 << iota // a count/size field had an invalid value
	NullNotAllowed                 // a null key, value or reference was forbidden but present
	MissingObject                  // a referenced object could not be found
	InvalidObject                  // an object's own validation failed
	InvalidSetup                   // a structural invariant (e.g. graph acyclicity) was violated
	InvalidValue                   // a single value was out of its allowed range
)

func (f Flag) String() string {
	names := []struct {
		bit  Flag
		name string
	}{
		{InvalidCount, "invalid_count"},
		{NullNotAllowed, "null_not_allowed"},
		{MissingObject, "missing_object"},
		{InvalidObject, "invalid_object"},
		{InvalidSetup, "invalid_setup"},
		{InvalidValue, "invalid_value"},
	}
	s := ""
	for _, n := range names {
		if f&n.bit != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// ErrorDescription is one recorded violation, captured with enough context
// to locate it in the source without re-running validation.
type ErrorDescription struct {
	Flag        Flag
	Description string
	File        string
	Line        int
	Function    string
}

// Validator accumulates an error count, the bitwise-OR of every flag
// reported against it, and, optionally, a full list of descriptions.
type Validator struct {
	errorCount   int
	flags        Flag
	recordDescs  bool
	descriptions []ErrorDescription
}

// New creates an empty Validator. By default error descriptions are not
// recorded, only the count and flags; call SetRecordErrorDescriptions(true)
// to capture full descriptions too.
func New() *Validator {
	return &Validator{}
}

// SetRecordErrorDescriptions toggles whether ReportErrorDescription appends
// to the description list. When false, descriptions are dropped but the
// count and flags are still updated.
func (v *Validator) SetRecordErrorDescriptions(record bool) {
	v.recordDescs = record
}

// Clear resets the validator to its empty state.
func (v *Validator) Clear() {
	v.errorCount = 0
	v.flags = 0
	v.descriptions = nil
}

// ReportError records a violation of the given kind with a formatted
// message, without file/line/function context.
func (v *Validator) ReportError(flag Flag, format string, args ...any) {
	v.errorCount++
	v.flags |= flag
	if v.recordDescs {
		v.descriptions = append(v.descriptions, ErrorDescription{
			Flag:        flag,
			Description: fmt.Sprintf(format, args...),
		})
	}
}

// ReportErrorDescription records a violation with explicit source context,
// used by generated management-function code that already knows its own
// file/line/function.
func (v *Validator) ReportErrorDescription(desc ErrorDescription) {
	v.errorCount++
	v.flags |= desc.Flag
	if v.recordDescs {
		v.descriptions = append(v.descriptions, desc)
	}
}

// GetErrorCount returns the total number of violations reported.
func (v *Validator) GetErrorCount() int { return v.errorCount }

// GetErrors returns the bitwise-OR of every flag reported.
func (v *Validator) GetErrors() Flag { return v.flags }

// HasError reports whether flag (or any combination including it) has been
// reported.
func (v *Validator) HasError(flag Flag) bool { return v.flags&flag != 0 }

// GetErrorDescriptions returns the recorded descriptions, or nil if
// SetRecordErrorDescriptions was never enabled.
func (v *Validator) GetErrorDescriptions() []ErrorDescription { return v.descriptions }

// Err combines every recorded violation into a single error via
// go.uber.org/multierr, or returns nil if none were reported. Without
// SetRecordErrorDescriptions(true), individual causes aren't available and
// Err falls back to a single summary error built from the count and flags.
func (v *Validator) Err() error {
	if v.errorCount == 0 {
		return nil
	}
	if !v.recordDescs {
		return fmt.Errorf("%d validation error(s), flags=%s", v.errorCount, v.flags)
	}
	var err error
	for _, d := range v.descriptions {
		err = multierr.Append(err, fmt.Errorf("%s: %s", d.Flag, d.Description))
	}
	return err
}
