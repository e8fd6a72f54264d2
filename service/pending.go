package service

import (
	"sync"
	"time"
)

// pendingItem is one outstanding request awaiting resolution. The done
// channel is buffered so the resolving side never blocks.
type pendingItem[P, R any] struct {
	id      string
	payload P
	done    chan R
	timer   *time.Timer
}

// pendingSlot is a single-occupancy, timeout-bounded holder for a request
// awaiting resolution. The held item's identifier is the single source of
// truth: resolution from the timer and from an explicit resolve call both
// go through the same id-guarded check-and-clear, so exactly one of them
// wins and the loser is a no-op.
type pendingSlot[P, R any] struct {
	mu  sync.Mutex
	cur *pendingItem[P, R]
}

// open places a new item in the slot and arms its expiry timer. Returns
// capacityErr when the slot is already occupied; the occupant is untouched.
func (s *pendingSlot[P, R]) open(id string, payload P, ttl time.Duration, timeoutResult R, capacityErr error) (<-chan R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur != nil {
		return nil, capacityErr
	}

	item := &pendingItem[P, R]{
		id:      id,
		payload: payload,
		done:    make(chan R, 1),
	}
	// The timer callback contends on s.mu, so it cannot observe the slot
	// before open has finished installing the item.
	item.timer = time.AfterFunc(ttl, func() {
		s.resolve(id, timeoutResult)
	})
	s.cur = item

	return item.done, nil
}

// resolve delivers result to the item identified by id. Returns false when
// the slot is empty or holds a different id (already resolved by the other
// source).
func (s *pendingSlot[P, R]) resolve(id string, result R) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil || s.cur.id != id {
		return false
	}

	item := s.cur
	s.cur = nil
	item.timer.Stop()
	item.done <- result

	return true
}

// peek returns the held item's payload without exposing the resolver.
func (s *pendingSlot[P, R]) peek() (P, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil {
		var zero P
		return zero, false
	}
	return s.cur.payload, true
}

// clear force-resolves whatever the slot holds and cancels its timer.
// Clearing an empty slot is a no-op.
func (s *pendingSlot[P, R]) clear(result R) {
	s.mu.Lock()
	item := s.cur
	s.cur = nil
	s.mu.Unlock()

	if item == nil {
		return
	}
	item.timer.Stop()
	item.done <- result
}
