package client

import (
	"errors"
	"fmt"
)

// ErrorClass represents a classification of transport failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents connection, DNS and timeout failures.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents a 200 response whose body did not match
	// the expected shape.
	ErrorClassDecode ErrorClass = "decode"

	// ErrorClassUnknown is anything else, including non-error statuses other
	// than 200 (1xx, 3xx that were not followed, 2xx other than 200).
	ErrorClassUnknown ErrorClass = "unknown"
)

// TransportError is a network-level failure: the request never produced a
// response.
type TransportError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("GET %s: transport error: %v", e.URL, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError is a response with a status other than 200.
type HTTPError struct {
	URL        string
	StatusCode int
	// Body is the best-effort response body, or a placeholder if it could
	// not be read.
	Body string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}

// DecodeError is a 200 response whose body could not be decoded.
type DecodeError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("GET %s: decode response: %v", e.URL, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Classify categorizes an error for observability.
func Classify(err error) ErrorClass {
	var transportErr *TransportError
	var decodeErr *DecodeError
	var httpErr *HTTPError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &transportErr):
		return ErrorClassNetwork
	case errors.As(err, &decodeErr):
		return ErrorClassDecode
	case errors.As(err, &httpErr):
		switch {
		case httpErr.StatusCode >= 400 && httpErr.StatusCode < 500:
			return ErrorClassClient
		case httpErr.StatusCode >= 500:
			return ErrorClassServer
		}
	}
	return ErrorClassUnknown
}
