package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jpalmerr/sitecheck"
)

// JSONWriter renders each round as one line of JSON, in the same shape the
// status API serves at /api/round.
type JSONWriter struct {
	output io.Writer
}

type jsonResult struct {
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	Up         bool      `json:"up"`
	Attempts   int       `json:"attempts"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	ObservedAt time.Time `json:"observed_at"`
	Error      *string   `json:"error"`
}

type jsonRound struct {
	ID               string       `json:"id"`
	Number           int          `json:"number"`
	StartedAt        time.Time    `json:"started_at"`
	DurationMs       int64        `json:"duration_ms"`
	Total            int          `json:"total"`
	SuccessCount     int          `json:"success_count"`
	UptimePercent    float64      `json:"uptime_percent"`
	AverageSuccessMs float64      `json:"average_success_ms"`
	Results          []jsonResult `json:"results"`
}

// WriteRound encodes the round followed by a newline.
func (w *JSONWriter) WriteRound(round sitecheck.Round) error {
	out := jsonRound{
		ID:               round.ID,
		Number:           round.Number,
		StartedAt:        round.StartedAt,
		DurationMs:       round.Duration.Milliseconds(),
		Total:            round.Summary.Total,
		SuccessCount:     round.Summary.SuccessCount,
		UptimePercent:    round.Summary.UptimePercent,
		AverageSuccessMs: round.Summary.AverageSuccessMillis,
		Results:          make([]jsonResult, 0, len(round.Results)),
	}
	for _, r := range round.Results {
		res := jsonResult{
			URL:        r.URL,
			StatusCode: r.Outcome.StatusCode(),
			Up:         r.Healthy(),
			Attempts:   r.Attempts,
			ElapsedMs:  r.Elapsed.Milliseconds(),
			ObservedAt: r.ObservedAt,
		}
		if !r.Outcome.IsSuccess() {
			msg := r.Outcome.Message()
			res.Error = &msg
		}
		out.Results = append(out.Results, res)
	}
	return json.NewEncoder(w.output).Encode(out)
}
