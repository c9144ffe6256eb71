package twitch

import (
	"fmt"
)

// Stream is a live stream returned by the search endpoint.
type Stream struct {
	ID         int64   `json:"_id"`
	Game       string  `json:"game"`
	// Viewers is the live viewer count. Summary shows Channel.Views instead.
	Viewers    int     `json:"viewers"`
	StreamType string  `json:"stream_type"`
	Preview    Preview `json:"preview"`
	Channel    Channel `json:"channel"`
}

// Channel is the channel broadcasting a stream.
type Channel struct {
	ID          int64  `json:"_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Game        string `json:"game"`
	Status      string `json:"status"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Views       int    `json:"views"`
	Followers   int    `json:"followers"`
}

// Preview holds stream thumbnail URLs.
type Preview struct {
	Small    string `json:"small"`
	Medium   string `json:"medium"`
	Large    string `json:"large"`
	Template string `json:"template"`
}

// Summary is the one-line "game - N viewers" description of a stream.
// N is the channel's total view count, which the search page has always
// labelled as viewers; Stream.Viewers is not used here.
func (s Stream) Summary() string {
	if s.Channel.Game != "" {
		return fmt.Sprintf("%s - %d viewers", s.Channel.Game, s.Channel.Views)
	}
	return fmt.Sprintf("%d viewers", s.Channel.Views)
}

// searchResponse is the body of a successful search/streams call.
type searchResponse struct {
	Total   int      `json:"_total"`
	Streams []Stream `json:"streams"`
}

// errorResponse is the body Twitch returns with non-2xx statuses.
type errorResponse struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e errorResponse) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
