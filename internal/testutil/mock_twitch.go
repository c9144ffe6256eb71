// Package testutil provides testing utilities for the stream search client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockError is a failure the mock returns for a given offset.
type MockError struct {
	StatusCode int
	Message    string
}

// MockTwitch is a configurable mock of the Twitch v5 search/streams endpoint.
// It serves a deterministic result set of Total streams, sliced by the
// limit and offset query parameters.
type MockTwitch struct {
	server *httptest.Server
	mu     sync.RWMutex

	total      int
	shortPages map[int]int
	failures   map[int]MockError
	headers    map[string]string
	delay      time.Duration

	// Tracking
	RequestCount      int
	Offsets           []int
	LastQuery         string
	LastRequestHeader http.Header
}

type mockStream struct {
	ID      int64       `json:"_id"`
	Game    string      `json:"game"`
	Viewers int         `json:"viewers"`
	Preview mockPreview `json:"preview"`
	Channel mockChannel `json:"channel"`
}

type mockChannel struct {
	ID          int64  `json:"_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Game        string `json:"game"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Views       int    `json:"views"`
}

type mockPreview struct {
	Medium string `json:"medium"`
}

// NewMockTwitch creates a mock server that reports total results.
func NewMockTwitch(total int) *MockTwitch {
	mock := &MockTwitch{
		total:      total,
		shortPages: make(map[int]int),
		failures:   make(map[int]MockError),
		headers:    make(map[string]string),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))

	return mock
}

// URL returns the mock server URL.
func (m *MockTwitch) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockTwitch) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockTwitch) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.Offsets = nil
	m.LastQuery = ""
	m.LastRequestHeader = nil
}

// SetTotal changes the reported total result count.
func (m *MockTwitch) SetTotal(total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = total
}

// SetShortPage makes the page starting at offset return only count streams,
// mimicking the provider returning fewer items than the limit mid-range.
func (m *MockTwitch) SetShortPage(offset, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shortPages[offset] = count
}

// SetFailure makes requests for offset fail with the given status and message.
func (m *MockTwitch) SetFailure(offset int, failure MockError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[offset] = failure
}

// ClearFailure removes a failure configured for offset.
func (m *MockTwitch) ClearFailure(offset int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failures, offset)
}

// SetHeaders sets extra headers on every response.
func (m *MockTwitch) SetHeaders(headers map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headers = headers
}

// SetDelay delays every response.
func (m *MockTwitch) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockTwitch) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetOffsets returns the offsets requested, in order.
func (m *MockTwitch) GetOffsets() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.Offsets...)
}

// GetLastQuery returns the decoded query parameter of the last request.
func (m *MockTwitch) GetLastQuery() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

// GetLastRequestHeader returns the headers of the last request.
func (m *MockTwitch) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

func (m *MockTwitch) handle(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 25
	}

	m.mu.Lock()
	m.RequestCount++
	m.Offsets = append(m.Offsets, offset)
	m.LastQuery = r.URL.Query().Get("query")
	m.LastRequestHeader = r.Header.Clone()
	total := m.total
	short, isShort := m.shortPages[offset]
	failure, fails := m.failures[offset]
	delay := m.delay
	for key, value := range m.headers {
		w.Header().Set(key, value)
	}
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if !strings.HasSuffix(r.URL.Path, "/search/streams") {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	if r.Header.Get("Client-ID") == "" {
		writeError(w, http.StatusBadRequest, "No client id specified")
		return
	}

	if fails {
		writeError(w, failure.StatusCode, failure.Message)
		return
	}

	count := limit
	if remaining := total - offset; remaining < count {
		count = remaining
	}
	if isShort && short < count {
		count = short
	}
	if count < 0 {
		count = 0
	}

	streams := make([]mockStream, 0, count)
	for i := 0; i < count; i++ {
		streams = append(streams, newMockStream(offset+i+1))
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"_total":  total,
		"streams": streams,
	})
}

// newMockStream builds the n-th (1-indexed) stream of the result set.
func newMockStream(n int) mockStream {
	name := fmt.Sprintf("streamer%d", n)
	return mockStream{
		ID:      int64(n),
		Game:    "StarCraft II",
		Viewers: n * 10,
		Preview: mockPreview{
			Medium: fmt.Sprintf("https://static-cdn.jtvnw.net/previews-ttv/live_user_%s-320x180.jpg", name),
		},
		Channel: mockChannel{
			ID:          int64(1000 + n),
			Name:        name,
			DisplayName: fmt.Sprintf("Streamer%d", n),
			Game:        "StarCraft II",
			Description: fmt.Sprintf("Stream number %d", n),
			URL:         "https://www.twitch.tv/" + name,
			Views:       n * 100,
		},
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(status),
		"status":  status,
		"message": message,
	})
}
