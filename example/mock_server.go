package main

import (
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// mockState tracks the current status code and next change time of one site.
type mockState struct {
	codeIdx      int
	nextChangeAt time.Time
}

// StartMockSites runs a server whose /site/{name} paths cycle through
// 200, 404 and 503 every 10-30 seconds. Requests for the "slow" site take
// longer than the demo timeout.
func StartMockSites(addr string) {
	var (
		states = make(map[string]*mockState)
		mu     sync.Mutex
	)
	codes := []int{http.StatusOK, http.StatusNotFound, http.StatusServiceUnavailable}

	mux := http.NewServeMux()
	mux.HandleFunc("/site/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if name == "slow" {
			time.Sleep(3 * time.Second)
		}

		// simulate small latency variance
		time.Sleep(time.Duration(20+rand.Intn(120)) * time.Millisecond)

		mu.Lock()
		state, exists := states[name]
		if !exists {
			state = &mockState{nextChangeAt: time.Now().Add(time.Duration(10+rand.Intn(21)) * time.Second)}
			states[name] = state
		}
		if time.Now().After(state.nextChangeAt) {
			old := codes[state.codeIdx]
			state.codeIdx = (state.codeIdx + 1) % len(codes)
			state.nextChangeAt = time.Now().Add(time.Duration(10+rand.Intn(21)) * time.Second)
			slog.Info("status change", "site", name, "from", old, "to", codes[state.codeIdx])
		}
		code := codes[state.codeIdx]
		mu.Unlock()

		w.WriteHeader(code)
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
