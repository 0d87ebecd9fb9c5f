package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "transport error",
			err:      &TransportError{URL: "http://x", Err: errors.New("connection refused")},
			expected: ErrorClassNetwork,
		},
		{
			name:     "decode error",
			err:      &DecodeError{URL: "http://x", Err: errors.New("unexpected EOF")},
			expected: ErrorClassDecode,
		},
		{
			name:     "client error 404",
			err:      &HTTPError{URL: "http://x", StatusCode: 404},
			expected: ErrorClassClient,
		},
		{
			name:     "server error 503",
			err:      &HTTPError{URL: "http://x", StatusCode: 503},
			expected: ErrorClassServer,
		},
		{
			name:     "no content 204",
			err:      &HTTPError{URL: "http://x", StatusCode: 204},
			expected: ErrorClassUnknown,
		},
		{
			name:     "wrapped server error",
			err:      fmt.Errorf("page 3: %w", &HTTPError{URL: "http://x", StatusCode: 500}),
			expected: ErrorClassServer,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: ErrorClassUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.err)
			if result != tt.expected {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "http error",
			err: &HTTPError{
				URL:        "https://wiki.example.org/rest/api/content",
				StatusCode: 500,
				Body:       "internal server error",
			},
			expected: "GET https://wiki.example.org/rest/api/content: unexpected status 500: internal server error",
		},
		{
			name: "transport error",
			err: &TransportError{
				URL: "https://wiki.example.org/rest/api/content",
				Err: errors.New("connection refused"),
			},
			expected: "GET https://wiki.example.org/rest/api/content: transport error: connection refused",
		},
		{
			name: "decode error",
			err: &DecodeError{
				URL: "https://wiki.example.org/rest/api/content",
				Err: errors.New("unexpected EOF"),
			},
			expected: "GET https://wiki.example.org/rest/api/content: decode response: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.err.Error(); result != tt.expected {
				t.Errorf("Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	err := &TransportError{URL: "http://x", Err: wrappedErr}

	if !errors.Is(err, wrappedErr) {
		t.Error("errors.Is should work with wrapped error")
	}

	decodeErr := &DecodeError{URL: "http://x", Err: wrappedErr}
	if !errors.Is(decodeErr, wrappedErr) {
		t.Error("errors.Is should work with wrapped decode error")
	}
}
