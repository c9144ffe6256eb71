package twitch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Sternrassler/twitch-stream-search/internal/testutil"
	"github.com/Sternrassler/twitch-stream-search/pkg/gateway"
	"github.com/Sternrassler/twitch-stream-search/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// setupTestRedis creates a test Redis client.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	cfg := DefaultConfig("test-client-id")
	cfg.BaseURL = baseURL
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid config",
			config: DefaultConfig("abc"),
		},
		{
			name: "empty base url uses default",
			config: Config{
				ClientID: "abc",
			},
		},
		{
			name:        "missing client id",
			config:      Config{BaseURL: DefaultBaseURL},
			expectError: true,
			errorMsg:    "client id is required",
		},
		{
			name: "relative base url",
			config: Config{
				ClientID: "abc",
				BaseURL:  "api.twitch.tv/kraken",
			},
			expectError: true,
			errorMsg:    `base url must be absolute (got "api.twitch.tv/kraken")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error but got nil")
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if client == nil {
				t.Fatal("Client is nil")
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("abc")

	if cfg.ClientID != "abc" {
		t.Errorf("ClientID = %q, want %q", cfg.ClientID, "abc")
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Timeout <= 0 {
		t.Errorf("Timeout = %v, should be > 0", cfg.Timeout)
	}
}

func TestFetchPage_Success(t *testing.T) {
	mock := testutil.NewMockTwitch(93)
	defer mock.Close()

	client := newTestClient(t, mock.URL())

	page, err := client.FetchPage(context.Background(), "starcraft", 20, 10)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	if page.TotalResults != 93 {
		t.Errorf("TotalResults = %d, want 93", page.TotalResults)
	}
	if len(page.Records) != 10 {
		t.Fatalf("len(Records) = %d, want 10", len(page.Records))
	}
	if page.Records[0].ID != 21 {
		t.Errorf("first record ID = %d, want 21", page.Records[0].ID)
	}
	if page.Records[0].Channel.DisplayName != "Streamer21" {
		t.Errorf("DisplayName = %q, want %q", page.Records[0].Channel.DisplayName, "Streamer21")
	}
	if got := mock.GetOffsets(); len(got) != 1 || got[0] != 20 {
		t.Errorf("offsets = %v, want [20]", got)
	}
}

func TestFetchPage_Headers(t *testing.T) {
	mock := testutil.NewMockTwitch(1)
	defer mock.Close()

	client := newTestClient(t, mock.URL())

	if _, err := client.FetchPage(context.Background(), "starcraft", 0, 10); err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	headers := mock.GetLastRequestHeader()
	if got := headers.Get("Accept"); got != AcceptV5 {
		t.Errorf("Accept = %q, want %q", got, AcceptV5)
	}
	if got := headers.Get("Client-ID"); got != "test-client-id" {
		t.Errorf("Client-ID = %q, want %q", got, "test-client-id")
	}
	if got := headers.Get("User-Agent"); got != "twitch-stream-search/0.1.0" {
		t.Errorf("User-Agent = %q, want default user agent", got)
	}
}

func TestFetchPage_QueryEncoding(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"_total": 0, "streams": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	if _, err := client.FetchPage(context.Background(), "star craft & co", 10, 10); err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	want := "limit=10&offset=10&query=star+craft+%26+co"
	if rawQuery != want {
		t.Errorf("RawQuery = %q, want %q", rawQuery, want)
	}
}

func TestFetchPage_ShortPage(t *testing.T) {
	mock := testutil.NewMockTwitch(93)
	defer mock.Close()
	mock.SetShortPage(20, 8)

	client := newTestClient(t, mock.URL())

	page, err := client.FetchPage(context.Background(), "starcraft", 20, 10)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if len(page.Records) != 8 {
		t.Errorf("len(Records) = %d, want 8", len(page.Records))
	}
	if page.TotalResults != 93 {
		t.Errorf("TotalResults = %d, want 93", page.TotalResults)
	}
}

func TestFetchPage_ErrorResponses(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expectedMsg   string
		expectedClass gateway.ErrorClass
	}{
		{
			name:          "server error with message",
			status:        500,
			body:          `{"error": "Internal Server Error", "status": 500, "message": "server error"}`,
			expectedMsg:   "server error",
			expectedClass: gateway.ErrorClassServer,
		},
		{
			name:          "error field only",
			status:        400,
			body:          `{"error": "Bad Request", "status": 400}`,
			expectedMsg:   "Bad Request",
			expectedClass: gateway.ErrorClassClient,
		},
		{
			name:          "non-json body",
			status:        502,
			body:          `<html>bad gateway</html>`,
			expectedMsg:   "Bad Gateway",
			expectedClass: gateway.ErrorClassServer,
		},
		{
			name:          "too many requests",
			status:        429,
			body:          `{"error": "Too Many Requests", "status": 429, "message": "slow down"}`,
			expectedMsg:   "slow down",
			expectedClass: gateway.ErrorClassRateLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			page, err := client.FetchPage(context.Background(), "starcraft", 0, 10)
			if err == nil {
				t.Fatal("expected error")
			}
			if page != nil {
				t.Errorf("page = %+v, want nil", page)
			}

			var gwErr *gateway.Error
			if !errors.As(err, &gwErr) {
				t.Fatalf("error %T is not *gateway.Error", err)
			}
			if gwErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", gwErr.Status, tt.status)
			}
			if gwErr.Message != tt.expectedMsg {
				t.Errorf("Message = %q, want %q", gwErr.Message, tt.expectedMsg)
			}
			if gwErr.Class != tt.expectedClass {
				t.Errorf("Class = %q, want %q", gwErr.Class, tt.expectedClass)
			}
		})
	}
}

func TestFetchPage_MissingClientIDRejectedByProvider(t *testing.T) {
	mock := testutil.NewMockTwitch(10)
	defer mock.Close()

	client := newTestClient(t, mock.URL())
	client.config.ClientID = ""

	_, err := client.FetchPage(context.Background(), "starcraft", 0, 10)
	if got := gateway.Message(err); got != "No client id specified" {
		t.Errorf("Message = %q, want %q", got, "No client id specified")
	}
}

func TestFetchPage_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"_total": `))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.FetchPage(context.Background(), "starcraft", 0, 10)
	if gateway.ClassOf(err) != gateway.ErrorClassNetwork {
		t.Errorf("ClassOf() = %q, want %q", gateway.ClassOf(err), gateway.ErrorClassNetwork)
	}
}

func TestFetchPage_ContextTimeout(t *testing.T) {
	mock := testutil.NewMockTwitch(10)
	defer mock.Close()
	mock.SetDelay(200 * time.Millisecond)

	client := newTestClient(t, mock.URL())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.FetchPage(ctx, "starcraft", 0, 10)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want wrapped context.DeadlineExceeded", err)
	}
}

func TestFetchPage_SingleAttempt(t *testing.T) {
	mock := testutil.NewMockTwitch(10)
	defer mock.Close()
	mock.SetFailure(0, testutil.MockError{StatusCode: 503, Message: "unavailable"})

	client := newTestClient(t, mock.URL())

	if _, err := client.FetchPage(context.Background(), "starcraft", 0, 10); err == nil {
		t.Fatal("expected error")
	}
	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("RequestCount = %d, want 1 (no retry)", got)
	}
}

func TestFetchPage_RateLimitBlock(t *testing.T) {
	redisClient := setupTestRedis(t)

	mock := testutil.NewMockTwitch(10)
	defer mock.Close()

	tracker := ratelimit.NewTracker(redisClient, zerolog.Nop())
	headers := http.Header{}
	headers.Set(ratelimit.HeaderRemaining, "0")
	headers.Set(ratelimit.HeaderReset, strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))
	if err := tracker.UpdateFromHeaders(context.Background(), headers); err != nil {
		t.Fatalf("UpdateFromHeaders() error = %v", err)
	}

	cfg := DefaultConfig("test-client-id")
	cfg.BaseURL = mock.URL()
	cfg.RateLimiter = tracker
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.FetchPage(context.Background(), "starcraft", 0, 10)

	var gwErr *gateway.Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("error %v is not *gateway.Error", err)
	}
	if gwErr.Class != gateway.ErrorClassRateLimit {
		t.Errorf("Class = %q, want %q", gwErr.Class, gateway.ErrorClassRateLimit)
	}
	if mock.GetRequestCount() != 0 {
		t.Errorf("RequestCount = %d, want 0 for blocked request", mock.GetRequestCount())
	}
}

func TestFetchPage_UpdatesRateLimit(t *testing.T) {
	redisClient := setupTestRedis(t)

	mock := testutil.NewMockTwitch(10)
	defer mock.Close()
	mock.SetHeaders(map[string]string{
		ratelimit.HeaderLimit:     "800",
		ratelimit.HeaderRemaining: "799",
		ratelimit.HeaderReset:     strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10),
	})

	tracker := ratelimit.NewTracker(redisClient, zerolog.Nop())
	cfg := DefaultConfig("test-client-id")
	cfg.BaseURL = mock.URL()
	cfg.RateLimiter = tracker
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if _, err := client.FetchPage(context.Background(), "starcraft", 0, 10); err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	state, err := tracker.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if state.Remaining != 799 {
		t.Errorf("Remaining = %d, want 799", state.Remaining)
	}
}

func TestStream_Summary(t *testing.T) {
	withGame := Stream{Channel: Channel{Game: "StarCraft II", Views: 1200}}
	if got := withGame.Summary(); got != "StarCraft II - 1200 viewers" {
		t.Errorf("Summary() = %q", got)
	}

	withoutGame := Stream{Channel: Channel{Views: 5}}
	if got := withoutGame.Summary(); got != "5 viewers" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestClient_ImplementsGateway(t *testing.T) {
	var _ gateway.Gateway[Stream] = (*Client)(nil)
}
