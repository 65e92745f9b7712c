package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jpalmerr/sitecheck"
)

// createTestRound creates a round with one healthy, one 404 and one unreachable target.
func createTestRound() sitecheck.Round {
	at := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)
	results := []sitecheck.WebsiteResult{
		{URL: "https://up.test", Outcome: sitecheck.Success(200), Attempts: 1, Elapsed: 120 * time.Millisecond, ObservedAt: at},
		{URL: "https://missing.test", Outcome: sitecheck.Success(404), Attempts: 1, Elapsed: 40 * time.Millisecond, ObservedAt: at},
		{URL: "https://down.test", Outcome: sitecheck.Failure("dial tcp: connection refused"), Attempts: 2, Elapsed: 300 * time.Millisecond, ObservedAt: at},
	}
	return sitecheck.Round{
		ID:        "round-id",
		Number:    2,
		StartedAt: at,
		Duration:  350 * time.Millisecond,
		Results:   results,
		Summary:   sitecheck.Summarize(results),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"Markdown", FormatMarkdown, false},
		{" json ", FormatJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("New(xml) error = nil, want error")
	}
}

func TestSummaryLine(t *testing.T) {
	got := SummaryLine(createTestRound())
	want := "Summary: ok=1/3  uptime=33.3%  avg_ms=120 (success only)"
	if got != want {
		t.Errorf("SummaryLine() = %q, want %q", got, want)
	}
}

func TestSummaryLine_EmptyRound(t *testing.T) {
	got := SummaryLine(sitecheck.Round{})
	want := "Summary: ok=0/0  uptime=0.0%  avg_ms=0 (success only)"
	if got != want {
		t.Errorf("SummaryLine() = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 8, "this is…"},
		{"héllo wörld", 5, "héll…"},
		{"abc", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestRows(t *testing.T) {
	got := rows(createTestRound())

	want := [][]string{
		{"12:30:45", "https://up.test", "200", "120", "-"},
		{"12:30:45", "https://missing.test", "404", "40", "-"},
		{"12:30:45", "https://down.test", "ERR", "300", "dial tcp: connection refused"},
	}
	if len(got) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if strings.Join(got[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRows_TruncatesLongCells(t *testing.T) {
	round := sitecheck.Round{Results: []sitecheck.WebsiteResult{{
		URL:     "https://" + strings.Repeat("a", 80) + ".test",
		Outcome: sitecheck.Failure(strings.Repeat("e", 80)),
	}}}

	row := rows(round)[0]
	if n := len([]rune(row[1])); n != maxURLWidth {
		t.Errorf("URL cell width = %d, want %d", n, maxURLWidth)
	}
	if n := len([]rune(row[4])); n != maxErrorWidth {
		t.Errorf("ERROR cell width = %d, want %d", n, maxErrorWidth)
	}
}

func TestTableWriter(t *testing.T) {
	t.Run("writes results and summary", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := New("table", &buf)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		if err := w.WriteRound(createTestRound()); err != nil {
			t.Fatalf("WriteRound() error = %v", err)
		}

		out := buf.String()
		for _, want := range []string{"URL", "https://up.test", "ERR", "connection refused", "Summary: ok=1/3"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "=== Round") {
			t.Errorf("single-round output should not carry a round header:\n%s", out)
		}
	})

	t.Run("round headers", func(t *testing.T) {
		var buf bytes.Buffer
		w, _ := New("table", &buf, WithRoundHeaders())

		if err := w.WriteRound(createTestRound()); err != nil {
			t.Fatalf("WriteRound() error = %v", err)
		}
		if !strings.Contains(buf.String(), "=== Round 2 ===") {
			t.Errorf("output missing round header:\n%s", buf.String())
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := New("markdown", &buf, WithRoundHeaders())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := w.WriteRound(createTestRound()); err != nil {
		t.Fatalf("WriteRound() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"## Round 2", "https://missing.test", "404", "**Summary: ok=1/3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := New("json", &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	round := createTestRound()
	if err := w.WriteRound(round); err != nil {
		t.Fatalf("WriteRound() error = %v", err)
	}
	if err := w.WriteRound(round); err != nil {
		t.Fatalf("WriteRound() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (one per round)", len(lines))
	}

	var snap jsonRound
	if err := json.Unmarshal([]byte(lines[0]), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.Number != 2 || snap.Total != 3 || snap.SuccessCount != 1 {
		t.Errorf("snapshot = %+v, want number 2 with 1/3 ok", snap)
	}
}
