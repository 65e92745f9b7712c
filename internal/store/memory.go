package store

import (
	"sync"
)

// subscriberBuffer is the channel buffer given to each subscriber.
const subscriberBuffer = 16

// MemoryStore is an in-memory implementation of [Store].
//
// MemoryStore keeps only the latest round. Subscribers receive updates via
// buffered channels; if a subscriber's buffer is full, the update is dropped
// for that subscriber to prevent blocking the round loop.
type MemoryStore struct {
	mu     sync.RWMutex
	latest *RoundSnapshot

	subscribers map[chan RoundSnapshot]struct{}
	subMu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory [Store] implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subscribers: make(map[chan RoundSnapshot]struct{}),
	}
}

// Update replaces the stored round and notifies all subscribers.
func (m *MemoryStore) Update(round RoundSnapshot) {
	round.Results = copyResults(round.Results)

	m.mu.Lock()
	m.latest = &round
	m.mu.Unlock()

	m.notifySubscribers(round)
}

// Latest returns a copy of the most recent round.
func (m *MemoryStore) Latest() (RoundSnapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.latest == nil {
		return RoundSnapshot{}, false
	}
	snap := *m.latest
	snap.Results = copyResults(snap.Results)
	return snap, true
}

// Subscribe creates a new subscription and returns a channel for receiving updates.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan RoundSnapshot {
	ch := make(chan RoundSnapshot, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan RoundSnapshot) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the round to all active subscribers without blocking.
func (m *MemoryStore) notifySubscribers(round RoundSnapshot) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- round:
		default:
			// subscriber is slow, drop the message
		}
	}
}

func copyResults(in []ResultRecord) []ResultRecord {
	if in == nil {
		return nil
	}
	return append([]ResultRecord(nil), in...)
}
