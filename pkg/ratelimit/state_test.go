package ratelimit

import (
	"testing"
	"time"
)

func TestRateLimitState_IsStale(t *testing.T) {
	tests := []struct {
		name     string
		state    *RateLimitState
		maxAge   time.Duration
		expected bool
	}{
		{
			name: "fresh state",
			state: &RateLimitState{
				LastUpdate: time.Now(),
			},
			maxAge:   5 * time.Minute,
			expected: false,
		},
		{
			name: "stale state",
			state: &RateLimitState{
				LastUpdate: time.Now().Add(-10 * time.Minute),
			},
			maxAge:   5 * time.Minute,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.state.IsStale(tt.maxAge); result != tt.expected {
				t.Errorf("IsStale() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestRateLimitState_Thresholds(t *testing.T) {
	tests := []struct {
		name           string
		remaining      int
		resetIn        time.Duration
		expectBlock    bool
		expectThrottle bool
		expectHealthy  bool
	}{
		{
			name:          "healthy",
			remaining:     100,
			resetIn:       time.Minute,
			expectHealthy: true,
		},
		{
			name:          "at healthy threshold",
			remaining:     RemainingThresholdHealthy,
			resetIn:       time.Minute,
			expectHealthy: true,
		},
		{
			name:      "between warning and healthy",
			remaining: RemainingThresholdWarning,
			resetIn:   time.Minute,
		},
		{
			name:           "warning",
			remaining:      3,
			resetIn:        time.Minute,
			expectThrottle: true,
		},
		{
			name:        "empty bucket",
			remaining:   0,
			resetIn:     time.Minute,
			expectBlock: true,
		},
		{
			name:      "empty bucket already refilled",
			remaining: 0,
			resetIn:   -time.Second,
		},
		{
			name:      "low bucket already refilled",
			remaining: 2,
			resetIn:   -time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &RateLimitState{
				Remaining:  tt.remaining,
				ResetAt:    time.Now().Add(tt.resetIn),
				LastUpdate: time.Now(),
			}
			state.UpdateHealth()

			if got := state.NeedsCriticalBlock(); got != tt.expectBlock {
				t.Errorf("NeedsCriticalBlock() = %v, want %v (remaining=%d)", got, tt.expectBlock, tt.remaining)
			}
			if got := state.NeedsThrottling(); got != tt.expectThrottle {
				t.Errorf("NeedsThrottling() = %v, want %v (remaining=%d)", got, tt.expectThrottle, tt.remaining)
			}
			if state.IsHealthy != tt.expectHealthy {
				t.Errorf("IsHealthy = %v, want %v (remaining=%d)", state.IsHealthy, tt.expectHealthy, tt.remaining)
			}
		})
	}
}

func TestRateLimitState_TimeUntilReset(t *testing.T) {
	past := &RateLimitState{ResetAt: time.Now().Add(-time.Minute)}
	if got := past.TimeUntilReset(); got != 0 {
		t.Errorf("TimeUntilReset() = %v, want 0 for past reset", got)
	}

	future := &RateLimitState{ResetAt: time.Now().Add(30 * time.Second)}
	if got := future.TimeUntilReset(); got <= 25*time.Second || got > 30*time.Second {
		t.Errorf("TimeUntilReset() = %v, want about 30s", got)
	}
}
