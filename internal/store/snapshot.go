package store

import (
	"github.com/jpalmerr/sitecheck/internal/aggregate"
	"github.com/jpalmerr/sitecheck/internal/scheduler"
)

// NewSnapshot converts a completed round into its JSON representation.
func NewSnapshot(round scheduler.Round) RoundSnapshot {
	snap := RoundSnapshot{
		ID:               round.ID,
		Number:           round.Number,
		StartedAt:        round.StartedAt,
		DurationMs:       round.Duration.Milliseconds(),
		Total:            round.Summary.Total,
		SuccessCount:     round.Summary.SuccessCount,
		UptimePercent:    round.Summary.UptimePercent,
		AverageSuccessMs: round.Summary.AverageSuccessMillis,
		Results:          make([]ResultRecord, 0, len(round.Results)),
	}
	for _, r := range round.Results {
		rec := ResultRecord{
			URL:        r.URL,
			StatusCode: r.StatusCode,
			Up:         aggregate.Healthy(r),
			Attempts:   r.Attempts,
			ElapsedMs:  r.Elapsed.Milliseconds(),
			ObservedAt: r.ObservedAt,
		}
		if r.Failed() {
			msg := r.Err
			rec.Error = &msg
		}
		snap.Results = append(snap.Results, rec)
	}
	return snap
}
