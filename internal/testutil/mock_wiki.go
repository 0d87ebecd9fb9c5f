// Package testutil provides testing utilities for the confluence crawler.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/Sternrassler/confluence-crawler/pkg/confluence"
	"github.com/Sternrassler/confluence-crawler/pkg/pagination"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockWiki is a configurable mock Confluence server. Responses are keyed
// by path plus query; query parameter order and escaping do not matter.
type MockWiki struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responses map[string]MockResponse

	requests    []string
	lastHeaders http.Header
}

// NewMockWiki starts a new mock server.
func NewMockWiki() *MockWiki {
	mock := &MockWiki{
		responses: make(map[string]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))

	return mock
}

// URL returns the mock server origin, usable as the crawler base URL.
func (m *MockWiki) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockWiki) Close() {
	m.server.Close()
}

// SetResponse configures the response for a path with query,
// e.g. "/rest/api/content?start=0&limit=50".
func (m *MockWiki) SetResponse(pathAndQuery string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[canonicalKey(pathAndQuery)] = resp
}

// SetJSON configures a 200 response with body v encoded as JSON.
func (m *MockWiki) SetJSON(pathAndQuery string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	m.SetResponse(pathAndQuery, NewJSONResponse(string(data)))
}

// Requests returns the request URIs received so far, in order.
func (m *MockWiki) Requests() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.requests...)
}

// RequestCount returns the number of requests made to the server.
func (m *MockWiki) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// LastHeaders returns the headers of the most recent request.
func (m *MockWiki) LastHeaders() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastHeaders
}

func (m *MockWiki) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, r.URL.RequestURI())
	m.lastHeaders = r.Header.Clone()
	resp, ok := m.responses[canonicalKey(r.URL.RequestURI())]
	m.mu.Unlock()

	if !ok {
		resp = MockResponse{
			StatusCode: http.StatusNotFound,
			Body:       `{"statusCode":404,"message":"No content found"}`,
			Headers:    map[string]string{"Content-Type": "application/json"},
		}
	}

	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// canonicalKey normalizes a path with query so that equivalent queries map
// to the same key.
func canonicalKey(pathAndQuery string) string {
	u, err := url.Parse(pathAndQuery)
	if err != nil {
		return pathAndQuery
	}
	key := u.Path
	if q := u.Query(); len(q) > 0 {
		key += "?" + q.Encode()
	}
	return key
}

// NewJSONResponse creates a 200 OK JSON response.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"statusCode":500,"message":"Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// ContentPage builds a content page whose next link is next ("" for last).
func ContentPage(next string, items ...confluence.Content) confluence.ContentPage {
	if items == nil {
		items = []confluence.Content{}
	}
	return confluence.ContentPage{
		Results: items,
		Links:   pagination.Links{Next: next, Base: "https://wiki.example.org"},
	}
}

// AttachmentPage builds an attachment page whose next link is next.
func AttachmentPage(next string, items ...confluence.Attachment) confluence.AttachmentPage {
	if items == nil {
		items = []confluence.Attachment{}
	}
	return confluence.AttachmentPage{
		Results: items,
		Links:   pagination.Links{Next: next, Base: "https://wiki.example.org"},
	}
}

// NewContent builds a content item in space spaceKey.
func NewContent(id, spaceKey, title string) confluence.Content {
	return confluence.Content{
		ID:    id,
		Space: confluence.Space{ID: 1, Key: spaceKey},
		Title: title,
		Links: confluence.ContentLinks{WebUI: "/display/" + spaceKey + "/" + title},
	}
}

// NewAttachment builds an attachment downloadable at /download/{id}.
func NewAttachment(id, title string) confluence.Attachment {
	return confluence.Attachment{
		ID:    id,
		Title: title,
		Links: confluence.AttachmentLinks{Download: "/download/" + id},
	}
}
