// Package ratelimit tracks the Twitch API request budget and gates requests.
// It monitors the Ratelimit-Limit, Ratelimit-Remaining and Ratelimit-Reset
// response headers and shares the observed state across processes via Redis.
package ratelimit

import (
	"time"
)

// Redis keys for rate limit state storage.
const (
	RedisKeyRemaining      = "twitch:rate_limit:remaining"
	RedisKeyLimit          = "twitch:rate_limit:limit"
	RedisKeyResetTimestamp = "twitch:rate_limit:reset_timestamp"
	RedisKeyLastUpdate     = "twitch:rate_limit:last_update"
)

// Response headers carrying the request budget.
const (
	HeaderLimit     = "Ratelimit-Limit"
	HeaderRemaining = "Ratelimit-Remaining"
	HeaderReset     = "Ratelimit-Reset"
)

// Thresholds for rate limit decisions.
const (
	// RemainingThresholdCritical blocks requests when fewer points remain
	// and the bucket has not been refilled yet.
	RemainingThresholdCritical = 1

	// RemainingThresholdWarning applies throttling below this value.
	RemainingThresholdWarning = 5

	// RemainingThresholdHealthy indicates normal operation.
	RemainingThresholdHealthy = 20
)

// RateLimitState is the last observed request budget.
type RateLimitState struct {
	// Limit is the bucket size from the Ratelimit-Limit header.
	Limit int `json:"limit"`

	// Remaining is the number of requests left in the current bucket.
	Remaining int `json:"remaining"`

	// ResetAt is when the bucket refills (Ratelimit-Reset, unix seconds).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was recorded.
	LastUpdate time.Time `json:"last_update"`

	// IsHealthy is true when Remaining >= RemainingThresholdHealthy.
	IsHealthy bool `json:"is_healthy"`
}

// IsStale returns true if the state data is older than the given duration.
func (s *RateLimitState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsCriticalBlock returns true if the bucket is empty and not yet refilled.
func (s *RateLimitState) NeedsCriticalBlock() bool {
	return s.Remaining < RemainingThresholdCritical && s.TimeUntilReset() > 0
}

// NeedsThrottling returns true if requests should be slowed down.
func (s *RateLimitState) NeedsThrottling() bool {
	return s.Remaining < RemainingThresholdWarning &&
		s.TimeUntilReset() > 0 &&
		!s.NeedsCriticalBlock()
}

// TimeUntilReset returns the duration until the bucket refills.
// Returns 0 if the reset time has already passed.
func (s *RateLimitState) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates the IsHealthy field based on Remaining.
func (s *RateLimitState) UpdateHealth() {
	s.IsHealthy = s.Remaining >= RemainingThresholdHealthy
}
