package store

import "time"

// ResultRecord is the storage representation of one probe result, shaped
// for JSON serialization (used by the REST API and SSE).
type ResultRecord struct {
	// URL is the probed target.
	URL string `json:"url"`

	// StatusCode is the received HTTP status code, 0 when no response arrived.
	StatusCode int `json:"status_code"`

	// Up is true for a received response with a status code below 400.
	Up bool `json:"up"`

	// Attempts is the number of attempts the probe made.
	Attempts int `json:"attempts"`

	// ElapsedMs is the whole probe duration in milliseconds.
	ElapsedMs int64 `json:"elapsed_ms"`

	// ObservedAt is when the probe concluded.
	ObservedAt time.Time `json:"observed_at"`

	// Error contains the last transport error when no response arrived.
	// nil indicates a response was received (though it may be a 4xx/5xx).
	Error *string `json:"error"`
}

// RoundSnapshot is the storage representation of one completed round.
type RoundSnapshot struct {
	ID               string         `json:"id"`
	Number           int            `json:"number"`
	StartedAt        time.Time      `json:"started_at"`
	DurationMs       int64          `json:"duration_ms"`
	Total            int            `json:"total"`
	SuccessCount     int            `json:"success_count"`
	UptimePercent    float64        `json:"uptime_percent"`
	AverageSuccessMs float64        `json:"average_success_ms"`
	Results          []ResultRecord `json:"results"`
}

// Store defines the interface for storing and subscribing to rounds.
//
// Store implementations must be safe for concurrent access.
type Store interface {
	// Update replaces the stored round and notifies all subscribers.
	Update(round RoundSnapshot)

	// Latest returns the most recent round, or false before the first update.
	Latest() (RoundSnapshot, bool)

	// Subscribe returns a channel that receives every subsequent round.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan RoundSnapshot

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan RoundSnapshot)
}
