package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jpalmerr/sitecheck"
)

// Format names an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Column limits for human-readable output.
const (
	maxURLWidth   = 45
	maxErrorWidth = 50
)

// Writer renders rounds to an output stream.
type Writer interface {
	// WriteRound renders one completed round.
	WriteRound(round sitecheck.Round) error
}

// Option configures a writer created by [New].
type Option func(*options)

type options struct {
	roundHeaders bool
}

// WithRoundHeaders prefixes every round with its sequence number. Used in
// periodic mode where several rounds share one stream.
func WithRoundHeaders() Option {
	return func(o *options) {
		o.roundHeaders = true
	}
}

// ParseFormat validates a format name. The empty string selects the table format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatMarkdown, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want table, markdown or json)", s)
	}
}

// New returns the writer for format.
func New(format string, w io.Writer, opts ...Option) (Writer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	switch f {
	case FormatMarkdown:
		return &MarkdownWriter{output: w, opts: o}, nil
	case FormatJSON:
		return &JSONWriter{output: w}, nil
	default:
		return &TableWriter{output: w, opts: o}, nil
	}
}

// SummaryLine renders the one-line round summary shared by text formats.
func SummaryLine(round sitecheck.Round) string {
	s := round.Summary
	return fmt.Sprintf("Summary: ok=%d/%d  uptime=%.1f%%  avg_ms=%d (success only)",
		s.SuccessCount, s.Total, s.UptimePercent, int64(s.AverageSuccessMillis))
}

// resultRow renders one result as TIME, URL, STATUS, MS, ERROR cells.
func resultRow(r resultView) []string {
	status := "ERR"
	errText := "-"
	if r.failed {
		errText = truncate(r.err, maxErrorWidth)
	} else {
		status = fmt.Sprintf("%d", r.statusCode)
	}
	return []string{
		r.observedAt,
		truncate(r.url, maxURLWidth),
		status,
		fmt.Sprintf("%d", r.elapsedMs),
		errText,
	}
}

var columns = []string{"TIME", "URL", "STATUS", "MS", "ERROR"}

// resultView is the flattened form of a probe result used by text formats.
type resultView struct {
	observedAt string
	url        string
	statusCode int
	elapsedMs  int64
	failed     bool
	err        string
}

func rows(round sitecheck.Round) [][]string {
	out := make([][]string, 0, len(round.Results))
	for _, r := range round.Results {
		out = append(out, resultRow(resultView{
			observedAt: r.ObservedAt.Format("15:04:05"),
			url:        r.URL,
			statusCode: r.Outcome.StatusCode(),
			elapsedMs:  r.Elapsed.Milliseconds(),
			failed:     !r.Outcome.IsSuccess(),
			err:        r.Outcome.Message(),
		}))
	}
	return out
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
