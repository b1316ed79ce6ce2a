package bustracker

import "fmt"

// InvalidArgumentCountError is returned when a batched request is
// given more identifiers than the API accepts in one call, or none at
// all where at least one is required.
type InvalidArgumentCountError struct {
	Count int
}

func (e *InvalidArgumentCountError) Error() string {
	return fmt.Sprintf("bustracker: %d identifiers given, between 1 and 10 allowed", e.Count)
}

// NetworkError wraps a transport failure for a request URL.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("bustracker: request %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedResponseError is returned when a response body does not
// decode as an XML document.
type MalformedResponseError struct {
	Command string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("bustracker: malformed %s response: %v", e.Command, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// MissingFieldError is returned when a record in a response omits a
// required child element.
type MissingFieldError struct {
	Command string
	Field   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("bustracker: %s record missing required field %q", e.Command, e.Field)
}

// FieldConversionError is returned when a raw field value cannot be
// coerced to its entity's declared type.
type FieldConversionError struct {
	Entity string
	Field  string
	Value  string
	Err    error
}

func (e *FieldConversionError) Error() string {
	return fmt.Sprintf("bustracker: %s field %q: cannot convert %q: %v", e.Entity, e.Field, e.Value, e.Err)
}

func (e *FieldConversionError) Unwrap() error { return e.Err }

// TimeFormatError is returned when a timestamp matches neither of the
// two formats the API emits.
type TimeFormatError struct {
	Value string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("bustracker: timestamp %q matches neither %q nor %q", e.Value, timeLayoutSeconds, timeLayoutMinutes)
}
