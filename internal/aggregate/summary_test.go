package aggregate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jpalmerr/sitecheck/internal/probe"
)

func ok(url string, code int, elapsed time.Duration) probe.Result {
	return probe.Result{URL: url, StatusCode: code, Attempts: 1, Elapsed: elapsed}
}

func fail(url string, elapsed time.Duration) probe.Result {
	return probe.Result{URL: url, Err: "connection refused", Attempts: 1, Elapsed: elapsed}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		results     []probe.Result
		wantSuccess int
		wantUptime  float64
		wantAvgMs   float64
	}{
		{
			name:       "empty round",
			results:    nil,
			wantUptime: 0,
			wantAvgMs:  0,
		},
		{
			name: "all healthy",
			results: []probe.Result{
				ok("a", 200, 10*time.Millisecond),
				ok("b", 301, 30*time.Millisecond),
			},
			wantSuccess: 2,
			wantUptime:  100,
			wantAvgMs:   20,
		},
		{
			name: "none qualify",
			results: []probe.Result{
				ok("a", 404, 10*time.Millisecond),
				ok("b", 500, 10*time.Millisecond),
				fail("c", 10*time.Millisecond),
			},
			wantSuccess: 0,
			wantUptime:  0,
			wantAvgMs:   0,
		},
		{
			name: "mixed excludes failures and error codes from average",
			results: []probe.Result{
				ok("a", 200, 10*time.Millisecond),
				ok("b", 204, 50*time.Millisecond),
				ok("c", 404, 900*time.Millisecond),
				fail("d", 5*time.Second),
			},
			wantSuccess: 2,
			wantUptime:  50,
			wantAvgMs:   30,
		},
		{
			name: "399 counts 400 does not",
			results: []probe.Result{
				ok("a", 399, 4*time.Millisecond),
				ok("b", 400, 8*time.Millisecond),
				ok("c", 200, 8*time.Millisecond),
			},
			wantSuccess: 2,
			wantUptime:  100 * 2.0 / 3.0,
			wantAvgMs:   6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.results)
			if s.Total != len(tt.results) {
				t.Errorf("Total = %d, want %d", s.Total, len(tt.results))
			}
			if s.SuccessCount != tt.wantSuccess {
				t.Errorf("SuccessCount = %d, want %d", s.SuccessCount, tt.wantSuccess)
			}
			if s.UptimePercent != tt.wantUptime {
				t.Errorf("UptimePercent = %v, want %v", s.UptimePercent, tt.wantUptime)
			}
			if s.AverageSuccessMillis != tt.wantAvgMs {
				t.Errorf("AverageSuccessMillis = %v, want %v", s.AverageSuccessMillis, tt.wantAvgMs)
			}
		})
	}
}

func TestSummarize_OrderIndependent(t *testing.T) {
	results := []probe.Result{
		ok("a", 200, 13*time.Millisecond),
		ok("b", 503, 2*time.Millisecond),
		fail("c", 7*time.Millisecond),
		ok("d", 302, 41*time.Millisecond),
		ok("e", 200, 5*time.Millisecond),
	}
	want := Summarize(results)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]probe.Result(nil), results...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if got := Summarize(shuffled); got.SuccessCount != want.SuccessCount || got.UptimePercent != want.UptimePercent {
			t.Fatalf("Summarize(shuffled) = %+v, want %+v", got, want)
		}
	}
}

func TestHealthy(t *testing.T) {
	if !Healthy(ok("a", 200, 0)) {
		t.Error("Healthy(200) = false, want true")
	}
	if Healthy(ok("a", 404, 0)) {
		t.Error("Healthy(404) = true, want false")
	}
	if Healthy(fail("a", 0)) {
		t.Error("Healthy(failure) = true, want false")
	}
}

func TestCollect_StopsAtN(t *testing.T) {
	intake := make(chan probe.Result, 5)
	for _, u := range []string{"a", "b", "c", "d"} {
		intake <- ok(u, 200, 0)
	}

	got := Collect(intake, 3)

	if len(got) != 3 {
		t.Fatalf("len(Collect()) = %d, want 3", len(got))
	}
	if len(intake) != 1 {
		t.Errorf("intake left with %d results, want 1", len(intake))
	}
}

func TestCollect_ClosedIntake(t *testing.T) {
	intake := make(chan probe.Result, 2)
	intake <- ok("a", 200, 0)
	close(intake)

	got := Collect(intake, 5)

	if len(got) != 1 {
		t.Errorf("len(Collect()) = %d, want 1", len(got))
	}
}

func TestCollect_Zero(t *testing.T) {
	got := Collect(make(chan probe.Result), 0)
	if len(got) != 0 {
		t.Errorf("len(Collect()) = %d, want 0", len(got))
	}
}
