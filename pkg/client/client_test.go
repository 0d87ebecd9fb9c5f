package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type page struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
	Links struct {
		Next string `json:"next"`
	} `json:"_links"`
}

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()

	logger := zerolog.Nop()
	cfg.Logger = &logger

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "default config",
			config:      DefaultConfig(),
			expectError: false,
		},
		{
			name:        "zero config gets defaults",
			config:      Config{},
			expectError: false,
		},
		{
			name:        "negative timeout",
			config:      Config{Timeout: -1 * time.Second},
			expectError: true,
			errorMsg:    "timeout must be >= 0 (got -1s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if client.config.Timeout != DefaultTimeout {
				t.Errorf("Timeout = %s, want %s", client.config.Timeout, DefaultTimeout)
			}
			if client.config.UserAgent != DefaultUserAgent {
				t.Errorf("UserAgent = %q, want %q", client.config.UserAgent, DefaultUserAgent)
			}
		})
	}
}

func TestGetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":"1","extra":true},{"id":"2"}],"_links":{"next":"/n","base":"b"},"size":2}`))
	}))
	defer server.Close()

	c := newTestClient(t, DefaultConfig())

	var got page
	if err := c.GetJSON(context.Background(), server.URL, &got); err != nil {
		t.Fatalf("GetJSON() error: %v", err)
	}

	if len(got.Results) != 2 || got.Results[0].ID != "1" || got.Results[1].ID != "2" {
		t.Errorf("Results = %+v, want ids 1,2", got.Results)
	}
	if got.Links.Next != "/n" {
		t.Errorf("Next = %q, want %q", got.Links.Next, "/n")
	}
}

func TestGetJSON_Headers(t *testing.T) {
	var header http.Header
	var method string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		method = r.Method
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, Config{
		UserAgent: "TestApp/1.0.0",
		Headers: map[string]string{
			"X-Trace": "abc",
			"Accept":  "text/html",
		},
	})

	var got map[string]any
	if err := c.GetJSON(context.Background(), server.URL, &got); err != nil {
		t.Fatalf("GetJSON() error: %v", err)
	}

	if method != http.MethodGet {
		t.Errorf("Method = %q, want GET", method)
	}
	checks := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "TestApp/1.0.0",
		"X-Trace":      "abc",
	}
	for key, want := range checks {
		if got := header.Get(key); got != want {
			t.Errorf("Header %s = %q, want %q", key, got, want)
		}
	}
}

func TestGetJSON_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))
	defer server.Close()

	c := newTestClient(t, DefaultConfig())
	url := server.URL + "/rest/api/content?start=0"

	var got page
	err := c.GetJSON(context.Background(), url, &got)

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", httpErr.StatusCode)
	}
	if httpErr.Body != `{"message":"boom"}` {
		t.Errorf("Body = %q", httpErr.Body)
	}
	if httpErr.URL != url {
		t.Errorf("URL = %q, want %q", httpErr.URL, url)
	}
	if Classify(err) != ErrorClassServer {
		t.Errorf("Classify() = %q, want %q", Classify(err), ErrorClassServer)
	}
}

func TestGetJSON_NonOKSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, DefaultConfig())

	var got page
	err := c.GetJSON(context.Background(), server.URL, &got)

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected *HTTPError with status 202, got %v", err)
	}
}

// failingBody errors on every read.
type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("read failed") }
func (failingBody) Close() error             { return nil }

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestGetJSON_UnreadableErrorBody(t *testing.T) {
	c := newTestClient(t, Config{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusBadGateway,
				Header:     make(http.Header),
				Body:       failingBody{},
				Request:    req,
			}, nil
		}),
	})

	var got page
	err := c.GetJSON(context.Background(), "https://wiki.example.org/rest/api/content", &got)

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.Body != "Unknown error" {
		t.Errorf("Body = %q, want placeholder", httpErr.Body)
	}
}

func TestGetJSON_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": "not-a-list"}`))
	}))
	defer server.Close()

	c := newTestClient(t, DefaultConfig())

	var got page
	err := c.GetJSON(context.Background(), server.URL, &got)

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Expected *DecodeError, got %T: %v", err, err)
	}
	if decodeErr.URL != server.URL {
		t.Errorf("URL = %q, want %q", decodeErr.URL, server.URL)
	}
}

func TestGetJSON_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestClient(t, DefaultConfig())

	var got page
	err := c.GetJSON(context.Background(), url, &got)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError, got %T: %v", err, err)
	}
	if Classify(err) != ErrorClassNetwork {
		t.Errorf("Classify() = %q, want %q", Classify(err), ErrorClassNetwork)
	}
}

func TestGetJSON_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := newTestClient(t, Config{Timeout: 50 * time.Millisecond})

	var got page
	err := c.GetJSON(context.Background(), server.URL, &got)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError, got %T: %v", err, err)
	}
}

func TestGetJSON_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got page
	err := c.GetJSON(ctx, server.URL, &got)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestGetJSON_InvalidURL(t *testing.T) {
	c := newTestClient(t, DefaultConfig())

	var got page
	err := c.GetJSON(context.Background(), "://bad", &got)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "create request") {
		t.Errorf("Error = %q, want it to mention request creation", err.Error())
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":[{"id":"42"}],"_links":{}}`)
	}))
	defer server.Close()

	c := newTestClient(t, DefaultConfig())

	got, err := Fetch[page](context.Background(), c, server.URL)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(got.Results) != 1 || got.Results[0].ID != "42" {
		t.Errorf("Results = %+v", got.Results)
	}
	if got.Links.Next != "" {
		t.Errorf("Next = %q, want empty", got.Links.Next)
	}
}
